package handlers

import (
	"errors"
	"gorm.io/gorm"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
	"net/http"
	"slices"
	"testing"
)

func TestUserFieldCheck(t *testing.T) {
	a := testApp()

	kind, err := a.userFieldCheck(&types.UserFieldInput{FieldName: "Team", FieldType: "SELECT", Options: []string{" red ", "", "blue"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel, ok := kind.(fieldkind.Select)
	if !ok || !slices.Equal(sel.Options, []string{"red", "blue"}) {
		t.Errorf("unexpected kind %#v", kind)
	}

	if _, err := a.userFieldCheck(&types.UserFieldInput{FieldName: " ", FieldType: "text"}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := a.userFieldCheck(&types.UserFieldInput{FieldName: "Color", FieldType: "color"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestUserFieldMapFields(t *testing.T) {
	a := testApp()

	field := models.UserField{
		FieldName:         "Old",
		FieldType:         fieldkind.TagSelect,
		Options:           []string{"a"},
		DisplayOrder:      4,
		EncryptionEnabled: true,
	}
	req := types.UserFieldInput{FieldName: " Email ", FieldType: "email", Required: true}
	a.userFieldMapFields(&req, fieldkind.Email{}, &field)

	if field.FieldName != "Email" || field.FieldType != fieldkind.TagEmail || !field.Required {
		t.Errorf("unexpected field %+v", field)
	}
	if field.Options != nil {
		t.Errorf("options should be cleared, got %v", field.Options)
	}
	// 未提供时保持原值
	if field.DisplayOrder != 4 || !field.EncryptionEnabled {
		t.Errorf("display order and encryption should be kept, got %+v", field)
	}

	req.DisplayOrder = utils.P(1)
	req.EncryptionEnabled = utils.P(false)
	a.userFieldMapFields(&req, fieldkind.Email{}, &field)
	if field.DisplayOrder != 1 || field.EncryptionEnabled {
		t.Errorf("display order and encryption should be updated, got %+v", field)
	}
}

func TestUserFieldCreateValidation(t *testing.T) {
	a := testApp()

	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "unknown type", body: `{"field_name":"Color","field_type":"color"}`, detail: "unknown field type"},
		{name: "select without options", body: `{"field_name":"Team","field_type":"select"}`, detail: "at least one option"},
		{name: "no name", body: `{"field_type":"text"}`, detail: "field_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testContext(http.MethodPost, "/admin/user-fields", tt.body)

			if err := a.UserFieldCreate(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertDetail(t, rec, http.StatusBadRequest, tt.detail)
		})
	}
}

func TestDeleted(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name string
		res  *gorm.DB
		want error
	}{
		{name: "one row", res: &gorm.DB{RowsAffected: 1}},
		{name: "no rows", res: &gorm.DB{}, want: gorm.ErrRecordNotFound},
		{name: "db error", res: &gorm.DB{Error: dbErr}, want: dbErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := deleted(tt.res); !errors.Is(err, tt.want) {
				t.Errorf("deleted() = %v, want %v", err, tt.want)
			}
		})
	}
}
