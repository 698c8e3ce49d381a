package intexpr

import (
	"errors"
	"strconv"
)

// Reasons for a SyntaxError. Use errors.Is to test for them.
var (
	ErrInvalidChar     = errors.New("invalid character")
	ErrMalformedToken  = errors.New("malformed operand: digits and letters mixed")
	ErrMissingOperand  = errors.New("missing operand")
	ErrMissingOperator = errors.New("missing operator")
	ErrUnbalanced      = errors.New("unbalanced parentheses")
	ErrEmpty           = errors.New("no expression")
)

// Reasons for an ArithmeticError.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrOverflow     = errors.New("integer overflow")
)

// SyntaxError is an error indicating input that does not form an expression.
// It implements InputError.
type SyntaxError struct {
	// Col is the position of the offending character or token.
	Col int
	// Text is the offending character or token, if there is one.
	Text string
	// Err is the reason, one of the ErrInvalidChar family.
	Err error
}

func (err *SyntaxError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, err.Err.Error())
	}
	return errpos(err.Col, err.Err.Error()+" at "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// NameError is an error from a lookup for a variable that is not bound in the
// Evaluator. It implements InputError.
type NameError struct {
	// Col is the position of the start of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a literal that does not fit in an int64.
// It unwraps to the error from strconv. It implements InputError.
type NumberError struct {
	// Col is the position of the start of the literal.
	Col int
	// Text is the literal.
	Text string
	// Err is the conversion error.
	Err error
}

func (err *NumberError) Error() string {
	why := err.Err.Error()
	var ne *strconv.NumError
	if errors.As(err.Err, &ne) {
		why = ne.Err.Error()
	}
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text)+": "+why)
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

func (err *NumberError) Pos() int {
	return err.Col
}

// ArithmeticError is an error from applying an operator whose result is not
// an integer representable in an int64. It implements InputError.
type ArithmeticError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op string
	// Left and Right are the operands.
	Left, Right int64
	// Err is ErrDivideByZero or ErrOverflow.
	Err error
}

func (err *ArithmeticError) Error() string {
	l := strconv.FormatInt(err.Left, 10)
	r := strconv.FormatInt(err.Right, 10)
	return errpos(err.Col, err.Err.Error()+" in "+l+" "+err.Op+" "+r)
}

func (err *ArithmeticError) Unwrap() error {
	return err.Err
}

func (err *ArithmeticError) Pos() int {
	return err.Col
}

// InternalError indicates that the evaluator's stacks reached a state that
// valid or invalid input alone cannot produce. It does not implement
// InputError.
type InternalError struct {
	Msg string
}

func (err *InternalError) Error() string {
	return "intexpr: internal error: " + err.Msg
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input or bindings implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the character or token that caused
	// the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*ArithmeticError)(nil)
)
