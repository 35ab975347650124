package session

import (
	"errors"
	"testing"
	"time"

	"github.com/lankamar/bicauth/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("ana@x.com", "director", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Email != "ana@x.com" || claims.Role != "director" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("a@x.com", "usuario", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidSessionToken) {
		t.Fatalf("expected common.ErrInvalidSessionToken, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("a@x.com", "usuario", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidSessionToken) {
		t.Fatalf("expected common.ErrInvalidSessionToken, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidSessionToken) {
		t.Fatalf("expected common.ErrInvalidSessionToken, got %v", err)
	}
}
