package auth_test

import (
	"testing"

	"github.com/shashiranjanraj/lastbite/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken(7, "vendor", 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "vendor" || claims.VendorID != 3 {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Error("password stored in plain text")
	}
	if !auth.CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
