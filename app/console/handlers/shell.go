package handlers

import (
	"bufio"
	"context"
	"fmt"
	"instance-console/app/console/view"
	"io"
	"strings"
)

const prompt = "> "

// Shell 逐行读取命令并执行，选择、目标与迁移结果在命令之间保留
func (a *App) Shell(ctx context.Context, in io.Reader) error {
	a.banner()
	fmt.Fprintln(a.out, `type "help" for commands, "exit" to quit`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		if err := a.Run(ctx, args); err != nil {
			view.Error(a.out, err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
