package errors

import (
	"strings"
	"testing"
)

func TestValidateExpression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "2+3*4", false},
		{"with spaces", " (1 + 2) * 3 ", false},
		{"tab and newline", "1 +\t2\n", false},
		{"malformed is parser business", "1+*", false},
		{"unicode", "2×3", false},
		{"max length", strings.Repeat("1", MaxExpressionLength), false},

		{"empty", "", true},
		{"whitespace only", " \t\n", true},
		{"too long", strings.Repeat("1", MaxExpressionLength+1), true},
		{"null byte", "1\x00+2", true},
		{"escape", "1\x1b[2J", true},
		{"delete", "1\x7f", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpression(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidExpression) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidExpression)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"typical", 800, 600, false},
		{"minimum", 1, 1, false},
		{"maximum", MaxDimension, MaxDimension, false},

		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"too wide", MaxDimension + 1, 600, true},
		{"too tall", 800, MaxDimension + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDimensions)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"svg", "json"}
	if err := ValidateFormat("svg", allowed); err != nil {
		t.Errorf("svg: %v", err)
	}
	err := ValidateFormat("gif", allowed)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("gif: code = %v", GetCode(err))
	}
	if !strings.Contains(UserMessage(err), "svg, json") {
		t.Errorf("message should list allowed formats: %q", UserMessage(err))
	}
}

func TestValidateStyle(t *testing.T) {
	if err := ValidateStyle("simple", []string{"blueprint", "simple"}); err != nil {
		t.Errorf("simple: %v", err)
	}
	if err := ValidateStyle("handdrawn", []string{"simple"}); !Is(err, ErrCodeInvalidStyle) {
		t.Errorf("handdrawn: code = %v", GetCode(err))
	}
}
