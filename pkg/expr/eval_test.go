package expr

import (
	"math"
	"testing"
)

func TestCompileResult(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"2*-3", -6},
		{"-(1+2)", -3},
		{"1.5+2.25", 3.75},
		{"--3", 3},
		{"+-3", -3},
		{"2*-(1+2)", -6},
		{"10-4-3", 3},
		{"8/4/2", 1},
		{"1-(2-3)", 2},
		{"7", 7},
		{"3*(2+(4-1))/5", 3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tree, err := Compile(tt.in)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.in, err)
			}
			if got := tree.Result(); got != tt.want {
				t.Errorf("Compile(%q).Result() = %v, want %v", tt.in, got, tt.want)
			}
			if got := Evaluate(tree.Root); got != tree.Result() {
				t.Errorf("Evaluate = %v, cached result = %v", got, tree.Result())
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1/0", "+Inf"},
		{"-1/0", "-Inf"},
		{"0/0", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tree, err := Compile(tt.in)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.in, err)
			}
			if got := tree.ResultString(); got != tt.want {
				t.Errorf("ResultString() = %q, want %q", got, tt.want)
			}
		})
	}
	if v := MustCompile("1/0").Result(); !math.IsInf(v, 1) {
		t.Errorf("1/0 = %v, want +Inf", v)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{14, "14"},
		{3.75, "3.75"},
		{-6, "-6"},
		{1e21, "1e+21"},
		{math.Copysign(0, -1), "0"},
		{math.Inf(-1), "-Inf"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEvaluateNil(t *testing.T) {
	if v := Evaluate(nil); !math.IsNaN(v) {
		t.Errorf("Evaluate(nil) = %v, want NaN", v)
	}
}
