package luhn

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"simple valid that remains valid if reversed", "059", true},
		{"simple valid that becomes invalid if reversed", "59", true},
		{"single digit", "0", false},
		{"single zero with space", " 0", false},
		{"empty", "", false},
		{"spaces only", "   ", false},
		{"more than a single zero", "0000 0", true},
		{"two zeros", "00", true},
		{"odd digits count with spaces", "1 2 3", false},
		{"valid credit card", "4539 1488 0343 6467", true},
		{"valid credit card without spaces", "4539148803436467", true},
		{"invalid credit card", "8273 1232 7352 0569", false},
		{"valid canadian sin", "055 444 285", true},
		{"invalid canadian sin", "055 444 286", false},
		{"valid with even digits count", "095 245 88", true},
		{"valid long number", "79927398713", true},
		{"invalid long number", "79927398710", false},
		{"valid with leading and trailing spaces", " 4539 1488 0343 6467 ", true},
		{"valid with double spaces", "4539  1488  0343  6467", true},
		{"letter at the end", "1 2 3 a", false},
		{"letter inside", "055a 444 285", false},
		{"punctuation", "055-444-285", false},
		{"symbol", "055# 444$ 285", false},
		{"tab separator", "055\t444\t285", false},
		{"newline", "059\n", false},
		{"fullwidth digits", "０５９", false},
		{"arabic-indic digits", "٠٥٩", false},
		{"digit with combining mark", "05̀9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.number)

			require.Equal(t, tt.valid, got, "Validate(%q)", tt.number)
		})
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   Report
	}{
		{
			name:   "valid",
			number: "059",
			want:   Report{Valid: true, Reason: ReasonOK, Digits: 3, Sum: 10},
		},
		{
			name:   "checksum mismatch",
			number: "1 2 3",
			want:   Report{Valid: false, Reason: ReasonChecksum, Digits: 3, Sum: 8},
		},
		{
			name:   "too few digits",
			number: " 7 ",
			want:   Report{Valid: false, Reason: ReasonTooFewDigits, Digits: 1},
		},
		{
			name:   "empty",
			number: "",
			want:   Report{Valid: false, Reason: ReasonTooFewDigits},
		},
		{
			name:   "invalid symbol has no sum even if digits sum up",
			number: "05a9",
			want:   Report{Valid: false, Reason: ReasonInvalidSymbol},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Inspect(tt.number)

			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheckDigit(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		tests := []struct {
			payload string
			want    int
		}{
			{"7992739871", 3},
			{"05", 9},
			{"5", 9},
			{"0", 0},
			{"453914880343646", 7},
			{"055 444 28", 5},
		}

		for _, tt := range tests {
			t.Run(tt.payload, func(t *testing.T) {
				got, err := CheckDigit(tt.payload)

				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				require.True(t, Validate(tt.payload+strconv.Itoa(got)), "completed number must be valid")
			})
		}
	})

	t.Run("fail", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
			err     error
		}{
			{"empty", "", ErrNoDigits},
			{"spaces only", "  ", ErrNoDigits},
			{"letter", "12a", ErrInvalidSymbol},
			{"hyphen", "12-3", ErrInvalidSymbol},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := CheckDigit(tt.payload)

				require.ErrorIs(t, err, tt.err)
			})
		}
	})
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "4539148803436467", Normalize(" 4539 1488 0343 6467 "))
	require.Equal(t, "12a", Normalize("1 2 a"), "normalize must not validate")
	require.Equal(t, "", Normalize(""))
}

func TestValidate_Properties(t *testing.T) {
	rnd := rand.New(rand.NewPCG(42, 2024))

	randomDigits := func(n int) string {
		var b strings.Builder
		for range n {
			b.WriteByte(byte('0' + rnd.IntN(10)))
		}
		return b.String()
	}

	// Insert single spaces at random places between symbols
	withSpaces := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if rnd.IntN(3) == 0 {
				b.WriteRune(Separator)
			}
			b.WriteRune(r)
		}
		if rnd.IntN(2) == 0 {
			b.WriteRune(Separator)
		}
		return b.String()
	}

	for range 500 {
		number := randomDigits(2 + rnd.IntN(20))
		spaced := withSpaces(number)

		require.Equal(t, Validate(number), Validate(spaced), "spaces must not change the verdict: %q vs %q", number, spaced)
		require.Equal(t, Validate(number), Validate(number), "validate must be pure")
		require.Equal(t, Validate(number), Inspect(number).Valid)

		payload := number[1:]
		digit, err := CheckDigit(payload)
		require.NoError(t, err)
		require.True(t, Validate(payload+strconv.Itoa(digit)), "payload %q completed with %d must be valid", payload, digit)

		// Any invalid symbol rejects even a valid number
		completed := payload + strconv.Itoa(digit)
		pos := rnd.IntN(len(completed) + 1)
		broken := completed[:pos] + "x" + completed[pos:]
		require.False(t, Validate(broken), "%q must be invalid", broken)
	}
}
