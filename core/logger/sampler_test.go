package logger

import "testing"

func TestRatioSamplerAdmitsConfiguredShare(t *testing.T) {
	s := newRatioSampler(1, 3)
	admitted := 0
	for i := 0; i < 9; i++ {
		if s.Allow() {
			admitted++
		}
	}
	if admitted != 3 {
		t.Fatalf("expected 3 admitted out of 9, got %d", admitted)
	}
}

func TestRatioSamplerDisabledAdmitsAll(t *testing.T) {
	s := newRatioSampler(0, 0)
	for i := 0; i < 5; i++ {
		if !s.Allow() {
			t.Fatal("disabled sampler must admit every event")
		}
	}
}

func TestRatioSamplerNumeratorClamped(t *testing.T) {
	s := newRatioSampler(7, 3)
	for i := 0; i < 6; i++ {
		if !s.Allow() {
			t.Fatal("clamped ratio 3/3 must admit every event")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := []struct {
		spec string
		num  int
		den  int
	}{
		{"1/50", 1, 50},
		{" 2 / 5 ", 2, 5},
		{"10", 1, 10},
		{"0", 0, 0},
		{"", 0, 0},
		{"abc", 0, 0},
	}
	for _, tc := range cases {
		num, den := parseRatioSpec(tc.spec)
		if num != tc.num || den != tc.den {
			t.Fatalf("parseRatioSpec(%q) = %d/%d, want %d/%d", tc.spec, num, den, tc.num, tc.den)
		}
	}
}
