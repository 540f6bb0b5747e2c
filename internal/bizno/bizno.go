// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bizno formats and checks Korean business registration numbers
// (사업자등록번호), which are 10 digits written as 3-2-5 groups.
package bizno

import (
	"errors"
	"strings"
)

// Length is the number of digits in a registration number.
const Length = 10

var (
	// ErrLength is returned when the number does not have exactly 10 digits.
	ErrLength = errors.New("사업자등록번호 10자리를 정확히 입력해주세요.")

	// ErrNotDigits is returned when the number contains characters other
	// than digits and hyphens.
	ErrNotDigits = errors.New("사업자등록번호는 숫자만 입력할 수 있습니다.")
)

// Digits returns the digits of s, truncated to Length.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == Length {
				break
			}
		}
	}
	return b.String()
}

// Format keeps the digits of input, truncates them to 10, and inserts
// hyphens progressively as the user types: "123", "123-4", "123-45-6",
// "123-45-67890".
func Format(input string) string {
	d := Digits(input)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 5:
		return d[:3] + "-" + d[3:]
	default:
		return d[:3] + "-" + d[3:5] + "-" + d[5:]
	}
}

// Validate checks that input, with hyphens removed, is exactly 10 digits.
func Validate(input string) error {
	clean := strings.ReplaceAll(strings.TrimSpace(input), "-", "")
	for _, r := range clean {
		if r < '0' || r > '9' {
			return ErrNotDigits
		}
	}
	if len(clean) != Length {
		return ErrLength
	}
	return nil
}
