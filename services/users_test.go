package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewUserService(db, zaptest.NewLogger(t))

	got, err := s.Register(ctx, "A B", "ab", "p")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.ID == 0 {
		t.Fatal("Register returned no id")
	}
	if diff := cmp.Diff(models.UserSummary{ID: got.ID, FullName: "A B", Username: "ab"}, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	var stored models.User
	if err := db.First(&stored, got.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "p" {
		t.Errorf("password stored as %q", stored.PasswordHash)
	}

	_, err = s.Register(ctx, "Someone Else", "ab", "other")
	if !utils.IsErrorCode(err, utils.ErrConflict) {
		t.Errorf("duplicate username: err = %v, want CONFLICT", err)
	}
}

func TestUserService_Register_validation(t *testing.T) {
	s := NewUserService(newTestDB(t), zaptest.NewLogger(t))
	tests := []struct {
		name                         string
		fullName, username, password string
	}{
		{name: "NoFullName", username: "u", password: "p"},
		{name: "NoUsername", fullName: "F", password: "p"},
		{name: "NoPassword", fullName: "F", username: "u"},
		{name: "BlankUsername", fullName: "F", username: "   ", password: "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.fullName, tt.username, tt.password)
			if !utils.IsErrorCode(err, utils.ErrValidation) {
				t.Errorf("err = %v, want VALIDATION", err)
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(newTestDB(t), zaptest.NewLogger(t))
	u, err := s.Register(ctx, "A B", "ab", "p")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name                         string
		fullName, username, password string
		wantCode                     string
	}{
		{name: "OK", fullName: "A B", username: "ab", password: "p"},
		{name: "WrongPassword", fullName: "A B", username: "ab", password: "x", wantCode: utils.ErrUnauthorized},
		{name: "UnknownUser", fullName: "A B", username: "zz", password: "p", wantCode: utils.ErrNotFound},
		{name: "FullNameMismatch", fullName: "B A", username: "ab", password: "p", wantCode: utils.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := s.Authenticate(ctx, tt.fullName, tt.username, tt.password)
			if tt.wantCode != "" {
				if !utils.IsErrorCode(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			want := utils.Identity{UserID: u.ID, Username: "ab", FullName: "A B"}
			if diff := cmp.Diff(want, id); diff != "" {
				t.Errorf("identity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
