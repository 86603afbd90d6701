package validator_test

import (
	"strings"
	"testing"

	"casa/shared/validator"
)

type guestRequest struct {
	Name    string `json:"name"     validate:"required,max=100"`
	Email   string `json:"email"    validate:"required,email"`
	Guests  int    `json:"guests"   validate:"required,min=1,max=20"`
	CheckIn string `json:"check_in" validate:"required,datetime=2006-01-02"`
	Status  string `json:"status"   validate:"omitempty,oneof=confirmed cancelled completed"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *guestRequest
		expectError bool
	}{
		{
			name: "valid struct",
			data: &guestRequest{
				Name:    "Ada Lovelace",
				Email:   "ada@example.com",
				Guests:  2,
				CheckIn: "2026-06-01",
				Status:  "confirmed",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &guestRequest{
				Email:   "ada@example.com",
				Guests:  2,
				CheckIn: "2026-06-01",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &guestRequest{
				Name:    "Ada Lovelace",
				Email:   "not-an-email",
				Guests:  2,
				CheckIn: "2026-06-01",
			},
			expectError: true,
		},
		{
			name: "guests out of range",
			data: &guestRequest{
				Name:    "Ada Lovelace",
				Email:   "ada@example.com",
				Guests:  25,
				CheckIn: "2026-06-01",
			},
			expectError: true,
		},
		{
			name: "malformed date",
			data: &guestRequest{
				Name:    "Ada Lovelace",
				Email:   "ada@example.com",
				Guests:  2,
				CheckIn: "01-06-2026",
			},
			expectError: true,
		},
		{
			name: "invalid status",
			data: &guestRequest{
				Name:    "Ada Lovelace",
				Email:   "ada@example.com",
				Guests:  2,
				CheckIn: "2026-06-01",
				Status:  "pending",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "villa",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid email",
			field:       "guest@example.com",
			tag:         "email",
			expectError: false,
		},
		{
			name:        "invalid email",
			field:       "not-an-email",
			tag:         "email",
			expectError: true,
		},
		{
			name:        "valid date",
			field:       "2026-06-01",
			tag:         "datetime=2006-01-02",
			expectError: false,
		},
		{
			name:        "invalid date",
			field:       "June 1st",
			tag:         "datetime=2006-01-02",
			expectError: true,
		},
		{
			name:        "valid oneof",
			field:       "cancelled",
			tag:         "oneof=cancelled completed",
			expectError: false,
		},
		{
			name:        "invalid oneof",
			field:       "pending",
			tag:         "oneof=cancelled completed",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"name":"Ada Lovelace","email":"ada@example.com","guests":2,"check_in":"2026-06-01"}`,
			expectError: false,
		},
		{
			name:        "invalid field value",
			jsonBody:    `{"name":"Ada Lovelace","email":"not-an-email","guests":2,"check_in":"2026-06-01"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"name":"Ada Lovelace","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.jsonBody)

			var data guestRequest
			err := validator.Validate(reader, &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &guestRequest{}

	err := validator.ValidateStruct(data)
	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	if !strings.Contains(err.Error(), "required") {
		t.Errorf("expected descriptive error message containing 'required', got: %s", err.Error())
	}
}
