package services

import (
	"testing"
)

func TestCurrencyOptions(t *testing.T) {
	if len(CurrencyOptions) == 0 {
		t.Fatal("CurrencyOptions should not be empty")
	}
	seen := make(map[string]bool)
	for _, opt := range CurrencyOptions {
		if opt == "" {
			t.Error("CurrencyOptions contains empty string")
		}
		if seen[opt] {
			t.Errorf("duplicate currency option %q", opt)
		}
		seen[opt] = true
	}
	for _, want := range []string{"Armenian Dram", "Bangladesh Taka", "Argentine Peso"} {
		if !seen[want] {
			t.Errorf("expected currency option %q not found", want)
		}
	}
}

func TestValidCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Aruban Guilder", true},
		{"", false},
		{"Select Currency", false},
		{"aruban guilder", false},
		{"US Dollar", false},
	}
	for _, tt := range tests {
		if got := ValidCurrency(tt.input); got != tt.want {
			t.Errorf("ValidCurrency(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestProviderFields(t *testing.T) {
	keys := make(map[string]bool)
	currencies := 0
	for _, f := range ProviderFields {
		if f.Key == "" || f.Label == "" {
			t.Errorf("provider field with empty key or label: %+v", f)
		}
		if keys[f.Key] {
			t.Errorf("duplicate provider field key %q", f.Key)
		}
		keys[f.Key] = true
		if IsCurrencyField(f.Key) {
			currencies++
		}
	}
	if currencies != 2 {
		t.Errorf("expected 2 currency fields, got %d", currencies)
	}
	if !keys["name"] || !keys["total_landing_price_inr"] {
		t.Error("expected name and total_landing_price_inr provider fields")
	}
}

func TestRFQDetailFields_UniqueKeys(t *testing.T) {
	keys := make(map[string]bool)
	for _, f := range append(append([]FieldDef{}, CompanyDetailFields...), RFQDetailFields...) {
		if keys[f.Key] {
			t.Errorf("duplicate detail field key %q", f.Key)
		}
		keys[f.Key] = true
	}
	if !keys["rfq_cutoff"] || !keys["division"] {
		t.Error("expected rfq_cutoff and division detail fields")
	}
}
