package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"4.50", "4.5", true},
		{"4,50", "4.5", true},
		{"0.01", "0.01", true},
		{"1.005", "", false},
		{"4.500", "4.5", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"4.5", "4.50"},
		{"1234.5", "1,234.50"},
		{"1000000", "1,000,000.00"},
		{"2.345", "2.35"},
		{"-1195.5", "-1,195.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("%s expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
