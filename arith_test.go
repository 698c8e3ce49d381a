package intexpr

import (
	"errors"
	"math"
	"testing"
)

func TestArith(t *testing.T) {
	cases := []struct {
		op   byte
		l, r int64
		want int64
		err  error
	}{
		{'+', 1, 2, 3, nil},
		{'+', math.MaxInt64, 0, math.MaxInt64, nil},
		{'+', math.MaxInt64, 1, 0, ErrOverflow},
		{'+', math.MinInt64, -1, 0, ErrOverflow},
		{'+', math.MinInt64, math.MaxInt64, -1, nil},
		{'-', 10, 2, 8, nil},
		{'-', 2, 10, -8, nil},
		{'-', math.MinInt64, 1, 0, ErrOverflow},
		{'-', 0, math.MinInt64, 0, ErrOverflow},
		{'-', -1, math.MinInt64, math.MaxInt64, nil},
		{'*', 6, 7, 42, nil},
		{'*', -6, 7, -42, nil},
		{'*', 0, math.MinInt64, 0, nil},
		{'*', math.MinInt64, -1, 0, ErrOverflow},
		{'*', -1, math.MinInt64, 0, ErrOverflow},
		{'*', math.MaxInt64, 2, 0, ErrOverflow},
		{'*', 1 << 31, 1 << 31, 1 << 62, nil},
		{'/', 8, 2, 4, nil},
		{'/', 7, 2, 3, nil},
		{'/', -7, 2, -3, nil},
		{'/', 7, -2, -3, nil},
		{'/', 7, 0, 0, ErrDivideByZero},
		{'/', 0, 0, 0, ErrDivideByZero},
		{'/', math.MinInt64, -1, 0, ErrOverflow},
	}
	for _, c := range cases {
		got, err := arith(c.op, c.l, c.r)
		if !errors.Is(err, c.err) {
			t.Errorf("%d %c %d: want error %v, got %v", c.l, c.op, c.r, c.err, err)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("%d %c %d: want %d, got %d", c.l, c.op, c.r, c.want, got)
		}
	}
}

func TestArithNotOperator(t *testing.T) {
	_, err := arith('(', 1, 2)
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Errorf("want InternalError, got %v", err)
	}
}

func TestInternalErrorStacks(t *testing.T) {
	s := evaluation{ev: New(), vals: newValueStack(), ops: newOpStack()}
	s.vals.push(1)
	err := s.apply(opEntry{op: '+', col: 1})
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("want InternalError, got %v", err)
	}
	var in InputError
	if errors.As(err, &in) {
		t.Error("InternalError implements InputError")
	}

	s = evaluation{ev: New(), src: "1", vals: newValueStack(), ops: newOpStack(), operand: true, seen: true}
	s.vals.push(1)
	s.vals.push(2)
	if _, err := s.finish(); !errors.As(err, &ie) {
		t.Errorf("want InternalError for leftover values, got %v", err)
	}
}
