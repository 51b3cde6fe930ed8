package utils

import "testing"

func TestStripTags(t *testing.T) {
	tests := map[string]string{
		"  plain  ":                        "plain",
		"<b>bold</b> move":                 "bold move",
		`<script>alert(1)</script>hi`:      "hi",
		"Tom &amp; Jerry":                  "Tom & Jerry",
		`<a href="javascript:x()">go</a>`: "go",
	}
	for in, want := range tests {
		if got := StripTags(in); got != want {
			t.Errorf("StripTags(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]uint{3, 1, 3, 2, 1})
	want := []uint{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("Unique = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Unique = %v, want %v", got, want)
		}
	}
}
