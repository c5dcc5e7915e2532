package samup

// charClass is the semantic class of a single input byte. Every byte maps
// to exactly one class; classification is pure and total.
type charClass uint8

const (
	classWhitespace charClass = iota
	classNewline
	classUnderscore
	classAsterisk
	classOctothorpe
	classCaret
	classColon
	classBracketOpen
	classBracketClose
	classParenOpen
	classParenClose
	classDigit
	classContent
)

// classify maps a byte to its character class.
func classify(b byte) charClass {
	switch b {
	case ' ', '\t', '\r':
		return classWhitespace
	case '\n':
		return classNewline
	case '_':
		return classUnderscore
	case '*':
		return classAsterisk
	case '#':
		return classOctothorpe
	case '^':
		return classCaret
	case ':':
		return classColon
	case '[':
		return classBracketOpen
	case ']':
		return classBracketClose
	case '(':
		return classParenOpen
	case ')':
		return classParenClose
	}
	if b >= '0' && b <= '9' {
		return classDigit
	}
	return classContent
}

func (c charClass) String() string {
	switch c {
	case classWhitespace:
		return "whitespace"
	case classNewline:
		return "newline"
	case classUnderscore:
		return "underscore"
	case classAsterisk:
		return "asterisk"
	case classOctothorpe:
		return "octothorpe"
	case classCaret:
		return "caret"
	case classColon:
		return "colon"
	case classBracketOpen:
		return "bracket-open"
	case classBracketClose:
		return "bracket-close"
	case classParenOpen:
		return "paren-open"
	case classParenClose:
		return "paren-close"
	case classDigit:
		return "digit"
	default:
		return "content"
	}
}
