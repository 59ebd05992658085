package handlers

import (
	"errors"
	"gorm.io/gorm"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"testing"
)

func TestCheckAnswers(t *testing.T) {
	fields := map[uint]models.UserField{
		1: {Model: gorm.Model{ID: 1}, FieldName: "Name", FieldType: fieldkind.TagText, Required: true, EncryptionEnabled: true},
		2: {Model: gorm.Model{ID: 2}, FieldName: "Website", FieldType: fieldkind.TagURL},
		3: {Model: gorm.Model{ID: 3}, FieldName: "Team", FieldType: fieldkind.TagSelect, Options: []string{"red", "blue"}, Required: true},
	}

	tests := []struct {
		name    string
		answers []types.Answer
		wantErr bool
		is      error
	}{
		{name: "no answers"},
		{name: "valid", answers: []types.Answer{
			{FieldID: 1, Value: "ciphertext", Encrypted: true},
			{FieldID: 2, Value: "https://example.com"},
			{FieldID: 3, Value: "red"},
		}},
		{name: "unknown field", answers: []types.Answer{{FieldID: 9, Value: "x"}}, wantErr: true},
		{name: "plaintext for encrypted field", answers: []types.Answer{{FieldID: 1, Value: "Ada"}}, wantErr: true},
		{name: "empty required encrypted", answers: []types.Answer{{FieldID: 1, Value: " ", Encrypted: true}}, wantErr: true, is: fieldkind.ErrRequired},
		{name: "ciphertext for plain field", answers: []types.Answer{{FieldID: 2, Value: "x", Encrypted: true}}, wantErr: true},
		{name: "invalid url", answers: []types.Answer{{FieldID: 2, Value: "nope"}}, wantErr: true, is: fieldkind.ErrInvalid},
		{name: "optional url blank", answers: []types.Answer{{FieldID: 2, Value: ""}}},
		{name: "option not allowed", answers: []types.Answer{{FieldID: 3, Value: "green"}}, wantErr: true, is: fieldkind.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAnswers(fields, tt.answers)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkAnswers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}
