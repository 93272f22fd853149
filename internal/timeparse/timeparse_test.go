package timeparse_test

import (
	"math"
	"testing"

	"github.com/stevendejongnl/harv/internal/timeparse"
)

func TestParseHoursDecimal(t *testing.T) {
	cases := map[string]float64{
		"1.5":    1.5,
		"2.25":   2.25,
		"0.75":   0.75,
		"1":      1.0,
		"8":      8.0,
		"0.01":   0.01,
		"24":     24.0,
		" 1.5 ":  1.5,
		"  2.25": 2.25,
	}
	for input, want := range cases {
		got, err := timeparse.ParseHours(input)
		if err != nil {
			t.Errorf("ParseHours(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseHours(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseHoursColon(t *testing.T) {
	cases := map[string]float64{
		"1:30":      1.5,
		"2:15":      2.25,
		"0:45":      0.75,
		"0:30":      0.5,
		"1:00":      1.0,
		"10:45":     10.75,
		"01:30":     1.5,
		"00:45":     0.75,
		"20:30":     20.5,
		" 1 : 30 ":  1.5,
		"  0 : 45 ": 0.75,
	}
	for input, want := range cases {
		got, err := timeparse.ParseHours(input)
		if err != nil {
			t.Errorf("ParseHours(%q): %v", input, err)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("ParseHours(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseHoursColonRoundTrip(t *testing.T) {
	for h := 0; h <= 23; h++ {
		for _, m := range []int{0, 1, 15, 30, 45, 59} {
			if h == 0 && m == 0 {
				continue
			}
			input := formatHM(h, m)
			got, err := timeparse.ParseHours(input)
			if err != nil {
				t.Fatalf("ParseHours(%q): %v", input, err)
			}
			want := float64(h) + float64(m)/60
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("ParseHours(%q) = %v, want %v", input, got, want)
			}
		}
	}
}

func formatHM(h, m int) string {
	digits := "0123456789"
	hs := ""
	if h >= 10 {
		hs = string(digits[h/10])
	}
	hs += string(digits[h%10])
	return hs + ":" + string(digits[m/10]) + string(digits[m%10])
}

func TestParseHoursRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"0",
		"0.0",
		"0:00",
		"24.1",
		"25",
		"25:00",
		"-1",
		"-1.5",
		"-0.5",
		"abc",
		"one",
		"1.2.3",
		"1:60",
		"1:90",
		"0:99",
		"1:",
		":30",
		":",
		"1:30:00",
		"1:3a",
		"a:30",
		"1.5:30",
	}
	for _, input := range inputs {
		if _, err := timeparse.ParseHours(input); err == nil {
			t.Errorf("ParseHours(%q): expected error, got nil", input)
		}
	}
}

func TestParseHoursBoundaries(t *testing.T) {
	got, err := timeparse.ParseHours("23:59")
	if err != nil {
		t.Fatalf("ParseHours(23:59): %v", err)
	}
	want := 23.0 + 59.0/60.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ParseHours(23:59) = %v, want %v", got, want)
	}

	got, err = timeparse.ParseHours("0:01")
	if err != nil {
		t.Fatalf("ParseHours(0:01): %v", err)
	}
	if math.Abs(got-1.0/60.0) > 1e-9 {
		t.Errorf("ParseHours(0:01) = %v, want %v", got, 1.0/60.0)
	}
}
