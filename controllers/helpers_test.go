package controllers

import "testing"

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, 10},
		{"2", "5", 2, 5},
		{"0", "-3", 1, 10},
		{"x", "y", 1, 10},
		// oversized pages are left for the store to cap
		{"1", "500", 1, 500},
	}
	for _, tt := range tests {
		page, size := parsePagination(tt.page, tt.size, 10)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("parsePagination(%q, %q) = %d, %d, want %d, %d", tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]uint{"7": 7, " 12 ": 12, "0": 0, "-1": 0, "abc": 0, "": 0} {
		got, ok := parseID(raw)
		if got != want || ok != (want != 0) {
			t.Errorf("parseID(%q) = %d, %v", raw, got, ok)
		}
	}
}
