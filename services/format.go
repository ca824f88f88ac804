package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatINR renders amount as rupees with Indian digit grouping
// (₹1,23,45,678.90), always with two decimals.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole, frac, _ := strings.Cut(fmt.Sprintf("%.2f", amount), ".")
	return sign + "₹" + applyIndianGrouping(whole) + "." + frac
}

// applyIndianGrouping groups the last three digits, then pairs to the left.
func applyIndianGrouping(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// ParseAmount reads a typed amount, tolerating a rupee sign, grouping commas
// and surrounding spaces.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAmountText shows a typed amount in rupee notation when it parses as a
// number and echoes it unchanged otherwise. Free text is accepted on the
// quotation forms, so exports must cope with both.
func FormatAmountText(raw string) string {
	if v, ok := ParseAmount(raw); ok {
		return FormatINR(v)
	}
	if strings.TrimSpace(raw) == "" {
		return "—"
	}
	return raw
}

// DisplayValue substitutes the placeholder used for empty read-only fields.
func DisplayValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return "no value"
	}
	return s
}
