package inits

import (
	"fmt"
	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"instance-console/app/server/constants"
	"instance-console/app/server/models"
)

func DB(conn string, adminPassword string, debugMode bool) (db *gorm.DB, err error) {
	// 开发模式输出全部 SQL
	logLevel := logger.Warn
	if debugMode {
		logLevel = logger.Info
	}

	// 打开连接
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db, adminPassword); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.UserType{},
		&models.UserField{},
		&models.User{},
		&models.UserFieldValue{},
		&models.Setting{},
	)
}

func initData(db *gorm.DB, adminPassword string) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化管理员
	if err = db.Model(&models.Admin{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get admin count: %w", err)
	} else if counter == 0 { // 没有任何管理员，添加初始管理员
		// 创建密码
		var password string
		if password, err = argon2id.CreateHash(adminPassword, argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.Admin{
			Username: "admin",
			Name:     "Instance Admin",
			Password: password,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
	}

	// 初始化默认配置，已存在的配置项保持不变
	var settings []models.Setting
	for key, value := range constants.DefaultSettings {
		settings = append(settings, models.Setting{
			Key:   key,
			Value: []byte(value),
		})
	}
	if err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to create default settings: %w", err)
	}

	// 已有数据或全部导入成功
	return nil
}
