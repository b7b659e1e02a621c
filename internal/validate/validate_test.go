package validate

import "testing"

func TestProvince(t *testing.T) {
	if _, ok := Province(" Antwerp "); !ok {
		t.Fatal("known province with whitespace/case should pass")
	}
	if _, ok := Province("texas"); ok {
		t.Fatal("unknown province should fail")
	}
}

func TestIntervalMinutes(t *testing.T) {
	cases := map[string]bool{
		"5": true, "60": true, "1440": true,
		"4": false, "0": false, "1441": false, "abc": false, "": false,
	}
	for in, want := range cases {
		if _, ok := IntervalMinutes(in); ok != want {
			t.Fatalf("IntervalMinutes(%q): want %v, got %v", in, want, ok)
		}
	}
}

func TestPriceAndRange(t *testing.T) {
	if got := Price("", 999999999); got != 999999999 {
		t.Fatalf("empty price should fall back, got %d", got)
	}
	if got := Price("-5", 0); got != 0 {
		t.Fatalf("negative price should fall back, got %d", got)
	}
	if got := Price(" 250000 ", 0); got != 250000 {
		t.Fatalf("price not parsed, got %d", got)
	}
	if PriceRange(500000, 100000) {
		t.Fatal("inverted range should fail")
	}
	if !PriceRange(0, 0) {
		t.Fatal("zero range should pass")
	}
}

func TestEmail(t *testing.T) {
	if _, ok := Email("me@gmail.com"); !ok {
		t.Fatal("valid address rejected")
	}
	if _, ok := Email("not-an-address"); ok {
		t.Fatal("invalid address accepted")
	}
}
