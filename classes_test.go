package samup

import "testing"

func TestClassifyCoversEveryByte(t *testing.T) {
	for b := 0; b < 256; b++ {
		first := classify(byte(b))
		second := classify(byte(b))
		if first != second {
			t.Fatalf("classify(%#x) not stable: %v then %v", b, first, second)
		}
		if first > classContent {
			t.Fatalf("classify(%#x) out of range: %d", b, first)
		}
	}
}

func TestClassifyDelimiters(t *testing.T) {
	cases := map[byte]charClass{
		' ':  classWhitespace,
		'\t': classWhitespace,
		'\r': classWhitespace,
		'\n': classNewline,
		'_':  classUnderscore,
		'*':  classAsterisk,
		'#':  classOctothorpe,
		'^':  classCaret,
		':':  classColon,
		'[':  classBracketOpen,
		']':  classBracketClose,
		'(':  classParenOpen,
		')':  classParenClose,
		'0':  classDigit,
		'9':  classDigit,
		'a':  classContent,
		0xff: classContent,
	}
	for b, want := range cases {
		if got := classify(b); got != want {
			t.Fatalf("classify(%q) = %v, want %v", b, got, want)
		}
	}
}
