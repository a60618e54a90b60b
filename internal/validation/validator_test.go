package validation

import (
	"errors"
	"testing"
)

type reviewInput struct {
	MovieID string `json:"movieId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Email   string `json:"email" validate:"omitempty,email"`
	Name    string `json:"name" validate:"omitempty,max=3"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      reviewInput
		wantMsg string
	}{
		{"valid", reviewInput{MovieID: "550", Rating: 3}, ""},
		{"missing movie", reviewInput{Rating: 3}, "movieId is required"},
		{"rating too high", reviewInput{MovieID: "550", Rating: 6}, "rating must be at most 5"},
		{"bad email", reviewInput{MovieID: "550", Rating: 1, Email: "nope"}, "email must be a valid email address"},
		{"long name", reviewInput{MovieID: "550", Rating: 1, Name: "abcd"}, "name must be at most 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestStructCollectsAllFields(t *testing.T) {
	err := Struct(reviewInput{})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("Fields = %v, want movieId and rating", verr.Fields)
	}
}
