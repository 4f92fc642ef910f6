package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	now := epoch
	svc := NewTokenService("secret", time.Hour, WithClock(fixedClock(&now)))

	token, err := svc.Issue(&domain.User{ID: "vendor-1", Role: domain.RoleVendor})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "vendor-1" || id.Role != domain.RoleVendor {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestTokenService_TokensAreDistinct(t *testing.T) {
	now := epoch
	svc := NewTokenService("secret", time.Hour, WithClock(fixedClock(&now)))
	u := &domain.User{ID: "u1", Role: domain.RoleCustomer}

	a, _ := svc.Issue(u)
	b, _ := svc.Issue(u)
	if a == b {
		t.Fatalf("two issues at the same instant must differ")
	}
}

func TestTokenService_Expiry(t *testing.T) {
	now := epoch
	svc := NewTokenService("secret", time.Hour, WithClock(fixedClock(&now)))
	token, _ := svc.Issue(&domain.User{ID: "u1", Role: domain.RoleCustomer})

	now = epoch.Add(59 * time.Minute)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	now = epoch.Add(time.Hour)
	_, err := svc.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) || !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expiry at exactly exp, got %v", err)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	now := epoch
	svc := NewTokenService("secret", 0, WithClock(fixedClock(&now)))
	token, _ := svc.Issue(&domain.User{ID: "u1", Role: domain.RoleCustomer})

	now = epoch.Add(7*24*time.Hour - time.Second)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("default ttl should be seven days: %v", err)
	}
}

func TestTokenService_RejectsForgedTokens(t *testing.T) {
	now := epoch
	svc := NewTokenService("secret", time.Hour, WithClock(fixedClock(&now)))

	claims := tokenClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			IssuedAt:  jwt.NewNumericDate(epoch),
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}
	sign := func(method jwt.SigningMethod, key any, c jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	valid, _ := svc.Issue(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	noExp := claims
	noExp.ExpiresAt = nil
	badRole := claims
	badRole.Role = "root"
	noSubject := claims
	noSubject.Subject = ""

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"three segments": "a.b.c",
		"wrong secret":   sign(jwt.SigningMethodHS256, []byte("other"), claims),
		"wrong alg":      sign(jwt.SigningMethodHS512, []byte("secret"), claims),
		"none alg":       sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims),
		"no expiry":      sign(jwt.SigningMethodHS256, []byte("secret"), noExp),
		"unknown role":   sign(jwt.SigningMethodHS256, []byte("secret"), badRole),
		"no subject":     sign(jwt.SigningMethodHS256, []byte("secret"), noSubject),
		"tampered":       valid[:strings.LastIndex(valid, ".")] + ".AAAA",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenService_IssueRequiresUserID(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Issue(&domain.User{Role: domain.RoleCustomer}); err == nil {
		t.Fatalf("expected error for user without id")
	}
	if _, err := svc.Issue(nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}
