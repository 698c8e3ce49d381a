package intexpr

import "math"

// arith computes l op r. The error is ErrDivideByZero or ErrOverflow when the
// result is not an int64, or an *InternalError if op is not an operator.
func arith(op byte, l, r int64) (int64, error) {
	switch op {
	case '+':
		s := l + r
		if (s > l) != (r > 0) {
			return 0, ErrOverflow
		}
		return s, nil
	case '-':
		d := l - r
		if (d < l) != (r > 0) {
			return 0, ErrOverflow
		}
		return d, nil
	case '*':
		if l == 0 || r == 0 {
			return 0, nil
		}
		if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, ErrOverflow
		}
		p := l * r
		if p/r != l {
			return 0, ErrOverflow
		}
		return p, nil
	case '/':
		if r == 0 {
			return 0, ErrDivideByZero
		}
		if l == math.MinInt64 && r == -1 {
			return 0, ErrOverflow
		}
		// Go's integer division already truncates toward zero.
		return l / r, nil
	default:
		return 0, &InternalError{Msg: "apply non-operator " + quoteByte(op)}
	}
}
