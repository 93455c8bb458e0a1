package utils

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{950, "950.00"},
		{1000, "1,000.00"},
		{2000000, "2,000,000.00"},
		{1234567.5, "1,234,567.50"},
		{-45000, "-45,000.00"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
