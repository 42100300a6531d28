package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	tok, err := Issue("s3cret", "mindcare", Identity{ID: "u1", Name: "Ada", Email: "ada@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := NewVerifier("s3cret", "mindcare").Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "u1" || id.Name != "Ada" || id.Email != "ada@example.com" {
		t.Errorf("identity = %+v", id)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, _ := Issue("right", "", Identity{ID: "u1"}, time.Hour)
	if _, err := NewVerifier("wrong", "").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tok, _ := Issue("k", "", Identity{ID: "u1"}, -time.Minute)
	if _, err := NewVerifier("k", "").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	tok, _ := Issue("k", "elsewhere", Identity{ID: "u1"}, time.Hour)
	if _, err := NewVerifier("k", "mindcare").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	tok, _ := Issue("k", "", Identity{}, time.Hour)
	if _, err := NewVerifier("k", "").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewVerifier("k", "").Verify(tok); err == nil {
		t.Error("unsigned token should be rejected")
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no identity")
	}
	ctx := WithIdentity(context.Background(), Identity{ID: "u9", Name: "N"})
	id, ok := FromContext(ctx)
	if !ok || id.ID != "u9" {
		t.Errorf("identity = %+v, ok = %v", id, ok)
	}
	if o := id.Owner(); o.ID != "u9" || o.Name != "N" {
		t.Errorf("owner = %+v", o)
	}
}
