package services

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  Acme  ", "Acme"},
		{"collapses inner space", "Acme \t  Labs", "Acme Labs"},
		{"full-width digits", "１２００", "1200"},
		{"empty", "", ""},
		{"only space", " \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanMultiline(t *testing.T) {
	got := CleanMultiline("  Glucose   kit\r\n 50  tests \n\n")
	if want := "Glucose kit\n50 tests"; got != want {
		t.Errorf("CleanMultiline = %q, want %q", got, want)
	}
}
