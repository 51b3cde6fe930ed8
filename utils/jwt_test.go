package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
)

func TestTokenManager_roundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 30*24*time.Hour)
	want := Identity{UserID: 7, Username: "ab", FullName: "A B"}

	token, exp, err := m.Issue(want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned an empty token")
	}
	if d := time.Until(exp); d < 29*24*time.Hour || d > 30*24*time.Hour {
		t.Errorf("expiry %v from now, want about 30 days", d)
	}

	got, gotExp, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
	if !gotExp.Equal(exp.Truncate(time.Second)) {
		t.Errorf("expiry = %v, want %v", gotExp, exp.Truncate(time.Second))
	}
}

func TestTokenManager_Verify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	valid, _, err := m.Issue(Identity{UserID: 1, Username: "u", FullName: "U"})
	if err != nil {
		t.Fatal(err)
	}

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(Identity{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}

	other := NewTokenManager("other-secret", time.Hour)
	foreign, _, err := other.Issue(Identity{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{name: "Valid", token: valid},
		{name: "Missing", token: "", wantCode: ErrMissingToken},
		{name: "Garbage", token: "not-a-jwt", wantCode: ErrInvalidToken},
		{name: "Expired", token: expiredToken, wantCode: ErrInvalidToken},
		{name: "WrongSecret", token: foreign, wantCode: ErrInvalidToken},
		{name: "AlgNone", token: unsigned, wantCode: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := m.Verify(tt.token)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Verify: %v", err)
				}
				return
			}
			if !IsErrorCode(err, tt.wantCode) {
				t.Errorf("Verify error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestTokenManager_IssueWithoutSecret(t *testing.T) {
	m := NewTokenManager("", time.Hour)
	token, _, err := m.Issue(Identity{UserID: 1})
	if err == nil {
		t.Fatal("Issue without secret succeeded")
	}
	if token != "" {
		t.Errorf("Issue returned token %q alongside an error", token)
	}
}
