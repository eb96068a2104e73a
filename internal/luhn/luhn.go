// Package luhn implements the Luhn checksum validation of digit sequences.
//
// A number is a sequence of ASCII digits optionally separated by single spaces.
// Validation always runs in two passes: the first one checks the shape of the
// input (symbols and digits count), the second one accumulates the checksum.
// So malformed input is rejected before any arithmetic happens.
package luhn

import (
	"errors"
	"strings"
)

// Minimal digits count for a number to be valid.
// A single digit is never valid even if it is "0".
const MinDigits = 2

var (
	ErrInvalidSymbol = errors.New("luhn: input contains invalid symbol")
	ErrNoDigits      = errors.New("luhn: input contains no digits")
)

// Reason why the number was accepted or rejected
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonInvalidSymbol Reason = "invalid_symbol"
	ReasonTooFewDigits  Reason = "too_few_digits"
	ReasonChecksum      Reason = "checksum_mismatch"
)

// Report is a detailed result of the validation
type Report struct {
	Valid  bool
	Reason Reason

	// Digits count, separators excluded
	Digits int

	// Checksum total; zero if the input was rejected on the shape check
	Sum int
}

// Validate reports whether the number passes the Luhn check.
// Every malformed input (empty, invalid symbols, less than MinDigits digits) is just not valid.
func Validate(number string) bool {
	return Inspect(number).Valid
}

// Inspect validates the number the same way as Validate but returns the details.
func Inspect(number string) Report {
	symbols := []rune(number)

	// First pass: shape only
	digits, ok := countDigits(symbols)
	switch {
	case !ok:
		return Report{Reason: ReasonInvalidSymbol}
	case digits < MinDigits:
		return Report{Reason: ReasonTooFewDigits, Digits: digits}
	}

	// Second pass: checksum from the rightmost digit
	sum := checksum(symbols, 0)
	if sum%10 != 0 {
		return Report{Reason: ReasonChecksum, Digits: digits, Sum: sum}
	}

	return Report{Valid: true, Reason: ReasonOK, Digits: digits, Sum: sum}
}

// CheckDigit returns the digit which makes the payload valid when appended to it.
func CheckDigit(payload string) (int, error) {
	symbols := []rune(payload)

	digits, ok := countDigits(symbols)
	switch {
	case !ok:
		return 0, ErrInvalidSymbol
	case digits == 0:
		return 0, ErrNoDigits
	}

	// The check digit takes position 0, so the payload starts from position 1
	sum := checksum(symbols, 1)
	return (10 - sum%10) % 10, nil
}

// Normalize removes separators from the number. It does not validate anything.
func Normalize(number string) string {
	return strings.ReplaceAll(number, string(Separator), "")
}

// countDigits classifies every symbol.
// Returns false if any symbol is invalid.
func countDigits(symbols []rune) (int, bool) {
	count := 0
	for _, r := range symbols {
		s := Classify(r)
		switch {
		case s.IsInvalid():
			return count, false
		case s.IsDigit():
			count++
		}
	}
	return count, true
}

// checksum sums digits right to left doubling every digit on odd position.
// Positions are counted on digits only, start is the position of the rightmost digit.
// Symbols must be already checked by countDigits.
func checksum(symbols []rune, start int) int {
	total := 0
	position := start

	for i := len(symbols) - 1; i >= 0; i-- {
		s := Classify(symbols[i])
		if !s.IsDigit() {
			continue
		}

		d := s.Value
		if position%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}

		total += d
		position++
	}

	return total
}
