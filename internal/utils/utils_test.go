package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	tok, err := IssueAccessToken("secret", "ada@example.com", "USER", time.Hour)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if tok.Hash != HashToken(tok.Token) || len(tok.Hash) != 64 {
		t.Errorf("Hash = %q", tok.Hash)
	}

	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Email != "ada@example.com" || claims.Role != "USER" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("jti missing")
	}

	again, _ := IssueAccessToken("secret", "ada@example.com", "USER", time.Hour)
	if again.Token == tok.Token {
		t.Error("two issuances produced the same token")
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, _ := IssueAccessToken("secret", "ada@example.com", "USER", -time.Minute)
	valid, _ := IssueAccessToken("secret", "ada@example.com", "USER", time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := map[string]struct{ secret, raw string }{
		"expired":      {"secret", expired.Token},
		"wrong secret": {"other", valid.Token},
		"garbage":      {"secret", "not.a.jwt"},
		"alg none":     {"secret", unsigned},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Error("wrong password accepted")
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(TempPasswordLength)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	if len(s) != TempPasswordLength {
		t.Fatalf("len = %d", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(alphanumeric, r) {
			t.Errorf("unexpected rune %q", r)
		}
	}
}

func TestHashPasswordRejectsLongInput(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", 73), 4); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("err = %v, want ErrPasswordTooLong", err)
	}
	hash, err := HashPassword("pw", 99)
	if err != nil || !VerifyPassword(hash, "pw") {
		t.Errorf("out-of-range cost: hash %q err %v", hash, err)
	}
}
