package luhn

// Kind of a classified symbol
type Kind int

const (
	KindInvalid Kind = iota
	KindDigit
	KindSeparator
)

// Separator is the only symbol allowed between digits.
// Tabs, hyphens and other card formatting symbols are invalid.
const Separator = ' '

// Symbol is a single classified input symbol.
// Value is meaningful only for KindDigit.
type Symbol struct {
	Kind  Kind
	Value int
}

func (s Symbol) IsDigit() bool     { return s.Kind == KindDigit }
func (s Symbol) IsSeparator() bool { return s.Kind == KindSeparator }
func (s Symbol) IsInvalid() bool   { return s.Kind == KindInvalid }

// Classify maps one symbol to a digit, separator or invalid.
// Only ASCII '0'..'9' are digits, no unicode digits normalization performed.
func Classify(r rune) Symbol {
	switch {
	case r >= '0' && r <= '9':
		return Symbol{Kind: KindDigit, Value: int(r - '0')}
	case r == Separator:
		return Symbol{Kind: KindSeparator}
	default:
		return Symbol{Kind: KindInvalid}
	}
}
