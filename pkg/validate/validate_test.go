package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/lastbite/pkg/validate"
)

type registerInput struct {
	Name     string  `json:"name"     validate:"required,min=2,max=50"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Age      int     `json:"age"      validate:"nullable,gte=18,lte=120"`
	Role     string  `json:"role"     validate:"required,in=consumer,vendor"`
	Score    float64 `json:"score"    validate:"nullable,between=0,100"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret123",
		Age:      25,
		Role:     "consumer",
		Score:    85.5,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); len(errs) == 0 {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestInRuleWithMultipleValues(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=ready,picked_up,cancelled"`
	}
	if errs := validate.Struct(in{Status: "picked_up"}); validate.HasErrors(errs) {
		t.Errorf("expected picked_up to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Status: "confirmed"}); len(errs) == 0 {
		t.Error("expected confirmed to be rejected")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gt=0,lte=100"`
	}
	if errs := validate.Struct(in{Quantity: 0}); len(errs) == 0 {
		t.Error("expected zero quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 101}); len(errs) == 0 {
		t.Error("expected quantity > 100 to fail")
	}
	if errs := validate.Struct(in{Quantity: 3}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 3 to pass, got: %v", errs)
	}
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"nullable,min=8"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable field to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Phone: "123"}); len(errs) == 0 {
		t.Error("expected short phone to fail when present")
	}
}

func TestBetweenOnStrings(t *testing.T) {
	type in struct {
		Zip string `json:"zip" validate:"required,between=4,10"`
	}
	if errs := validate.Struct(in{Zip: "22"}); len(errs) == 0 {
		t.Error("expected short zip to fail")
	}
	if errs := validate.Struct(in{Zip: "2200"}); validate.HasErrors(errs) {
		t.Errorf("expected zip to pass, got: %v", errs)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		Expiry string `json:"expiry" validate:"required,date"`
	}
	if errs := validate.Struct(in{Expiry: "2026-03-01"}); validate.HasErrors(errs) {
		t.Errorf("expected ISO date to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Expiry: "not-a-date"}); len(errs) == 0 {
		t.Error("expected invalid date to fail")
	}
}
