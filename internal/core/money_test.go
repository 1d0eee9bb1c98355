package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{"0.01", 0.01, true},
		{"1.005", 1.01, true}, // half-up rounding
		{" 2.50 ", 2.5, true},
		{"1000", 1000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.001", 0, false}, // rounds to zero
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err != ErrInvalidAmount {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	if got := Sum(0.1, 0.2); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := Sum(); got != 0 {
		t.Fatalf("expected 0 for no amounts, got %v", got)
	}

	var acc Accumulator
	for i := 0; i < 10; i++ {
		acc.Add(0.1)
	}
	if acc.Value() != 1 {
		t.Fatalf("expected 1, got %v", acc.Value())
	}
}
