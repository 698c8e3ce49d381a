package intexpr

// Operators contains the bytes which are binary operators.
const Operators = "+-*/"

// Open and close parentheses.
const (
	OpenParen  = '('
	CloseParen = ')'
)

// charClass is the lexical class of a single input byte.
type charClass int

const (
	classInvalid charClass = iota
	classDigit
	classLetter
	classOpen
	classClose
	classOp
	classSpace
)

func (c charClass) String() string {
	switch c {
	case classDigit:
		return "digit"
	case classLetter:
		return "letter"
	case classOpen:
		return "open parenthesis"
	case classClose:
		return "close parenthesis"
	case classOp:
		return "operator"
	case classSpace:
		return "space"
	default:
		return "invalid"
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/':
		return true
	}
	return false
}

// classify returns the class of c. Any byte of a multi-byte UTF-8 sequence is
// invalid.
func classify(c byte) charClass {
	switch {
	case isDigit(c):
		return classDigit
	case isLower(c):
		return classLetter
	case c == OpenParen:
		return classOpen
	case c == CloseParen:
		return classClose
	case isOperator(c):
		return classOp
	case c == ' ':
		return classSpace
	default:
		return classInvalid
	}
}

// priority returns the binding strength of an operator. Higher binds tighter.
// The result is -1 for anything that is not an operator.
func priority(op byte) int {
	switch op {
	case '+', '-':
		return 0
	case '*', '/':
		return 1
	default:
		return -1
	}
}

// IsName reports whether s is usable as a variable name in expressions, i.e.
// whether it is a non-empty run of lowercase ASCII letters.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLower(s[i]) {
			return false
		}
	}
	return true
}
