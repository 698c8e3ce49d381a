package intexpr

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Evaluator evaluates expressions using its variable bindings. Evaluate only
// reads the bindings, so concurrent calls to Evaluate are safe; Bind and
// Unbind must not run concurrently with anything else.
type Evaluator struct {
	names map[string]int64
	log   *zerolog.Logger
}

// Option is an option used when creating an Evaluator.
type Option interface {
	evalOption()
}

type (
	varopt struct {
		name string
		val  int64
	}
	varsopt map[string]int64
	logopt  struct {
		log zerolog.Logger
	}
)

func (varopt) evalOption()  {}
func (varsopt) evalOption() {}
func (logopt) evalOption()  {}

// SetVar sets the value of a variable in the evaluator.
func SetVar(name string, val int64) Option {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the evaluator.
func SetVars(vars map[string]int64) Option {
	return varsopt(vars)
}

// WithLogger sets the logger which receives a trace of each operator
// application and a debug record for each failed evaluation. The default
// discards everything.
func WithLogger(log zerolog.Logger) Option {
	return logopt{log}
}

// New creates a new Evaluator.
func New(opts ...Option) *Evaluator {
	var ev Evaluator
	return ev.Clone(opts...)
}

// Clone creates a copy of an evaluator and applies options to it. Bindings
// made on the copy do not affect the original and vice versa.
func (ev *Evaluator) Clone(opts ...Option) *Evaluator {
	n := Evaluator{
		names: make(map[string]int64, len(ev.names)),
		log:   ev.log,
	}
	for name, val := range ev.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case logopt:
			log := opt.log
			n.log = &log
		default:
			panic("intexpr: unknown option type")
		}
	}
	return &n
}

// Bind sets the value of a variable, replacing any previous value. Returns ev
// for chaining. Only names for which IsName is true can be referenced by
// expressions.
func (ev *Evaluator) Bind(name string, value int64) *Evaluator {
	if ev.names == nil {
		ev.names = make(map[string]int64)
	}
	ev.names[name] = value
	return ev
}

// Unbind removes a variable. It is not an error if the variable is not bound.
func (ev *Evaluator) Unbind(name string) {
	delete(ev.names, name)
}

// Lookup returns the value of a variable and whether it is bound.
func (ev *Evaluator) Lookup(name string) (int64, bool) {
	v, ok := ev.names[name]
	return v, ok
}

// Vars returns the names of all bound variables in sorted order.
func (ev *Evaluator) Vars() []string {
	r := make([]string, 0, len(ev.names))
	for name := range ev.names {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}

// Evaluate computes the value of the expression in src. If the expression is
// malformed, refers to an unbound variable, or an operation has no int64
// result, the error describes why and where; every such error implements
// InputError. There is never a partial result.
func (ev *Evaluator) Evaluate(src string) (int64, error) {
	s := evaluation{
		ev:   ev,
		src:  src,
		vals: newValueStack(),
		ops:  newOpStack(),
	}
	r, err := s.run()
	if err != nil {
		if ev.log != nil {
			ev.log.Debug().Err(err).Str("expr", src).Msg("evaluation failed")
		}
		return 0, err
	}
	return r, nil
}

// EvalString is a shortcut to evaluate an expression with a new Evaluator.
func EvalString(src string, opts ...Option) (int64, error) {
	return New(opts...).Evaluate(src)
}

// evaluation is the state of a single call to Evaluate.
type evaluation struct {
	ev   *Evaluator
	src  string
	vals valueStack
	ops  opStack

	// num and name are the pending literal and identifier.
	num, name []byte
	// start and end are the columns of the first and last bytes of the
	// pending operand.
	start, end int
	// operand is whether the last complete item was an operand, i.e. a
	// flushed value or a closing parenthesis.
	operand bool
	// seen is whether any non-space character has been scanned.
	seen bool
}

func (s *evaluation) run() (int64, error) {
	for i := 0; i < len(s.src); i++ {
		c := s.src[i]
		col := i + 1
		class := classify(c)
		if class != classSpace {
			s.seen = true
		}
		switch class {
		case classDigit, classLetter:
			if !s.pending() && s.operand {
				return 0, &SyntaxError{Col: col, Text: string(c), Err: ErrMissingOperator}
			}
			if !s.pending() {
				s.start = col
			}
			s.end = col
			if class == classDigit {
				s.num = append(s.num, c)
			} else {
				s.name = append(s.name, c)
			}
		case classSpace:
			// ignored, even inside an operand
		case classOpen:
			if s.pending() || s.operand {
				return 0, &SyntaxError{Col: col, Text: string(c), Err: ErrMissingOperator}
			}
			s.ops.push(opEntry{op: c, col: col})
		case classClose:
			if err := s.operandBefore(col, c); err != nil {
				return 0, err
			}
			if err := s.closeParen(col); err != nil {
				return 0, err
			}
			s.operand = true
		case classOp:
			if err := s.operandBefore(col, c); err != nil {
				return 0, err
			}
			if err := s.reduce(c); err != nil {
				return 0, err
			}
			s.ops.push(opEntry{op: c, col: col})
			s.operand = false
		default:
			r, _ := utf8.DecodeRuneInString(s.src[i:])
			return 0, &SyntaxError{Col: col, Text: string(r), Err: ErrInvalidChar}
		}
	}
	return s.finish()
}

// pending reports whether an operand is being accumulated.
func (s *evaluation) pending() bool {
	return len(s.num) != 0 || len(s.name) != 0
}

// operandBefore flushes the pending operand ahead of an operator or closing
// parenthesis c at col. It is an error if there is no operand to flush and
// the previous item was not an operand.
func (s *evaluation) operandBefore(col int, c byte) error {
	if s.pending() {
		return s.flush()
	}
	if !s.operand {
		return &SyntaxError{Col: col, Text: string(c), Err: ErrMissingOperand}
	}
	return nil
}

// flush resolves the pending operand and pushes its value.
func (s *evaluation) flush() error {
	if !s.pending() {
		return &InternalError{Msg: "flush with no pending operand"}
	}
	text := s.src[s.start-1 : s.end]
	var v int64
	switch {
	case len(s.num) != 0 && len(s.name) != 0:
		return &SyntaxError{Col: s.start, Text: text, Err: ErrMalformedToken}
	case len(s.num) != 0:
		n, err := strconv.ParseInt(string(s.num), 10, 64)
		if err != nil {
			return &NumberError{Col: s.start, Text: text, Err: err}
		}
		v = n
	default:
		n, ok := s.ev.names[string(s.name)]
		if !ok {
			return &NameError{Col: s.start, Name: string(s.name)}
		}
		v = n
	}
	s.vals.push(v)
	s.num = s.num[:0]
	s.name = s.name[:0]
	s.operand = true
	return nil
}

// reduce applies pending operators which bind at least as tightly as the
// incoming operator op, stopping at an open marker. Reducing only the top
// operator gives the same result wherever that is already correct, but leaves
// 1-2*3+4 grouped as 1-(6+4).
func (s *evaluation) reduce(op byte) error {
	for !s.ops.empty() {
		top := s.ops.top()
		if top.op == OpenParen || priority(top.op) < priority(op) {
			return nil
		}
		if err := s.apply(s.ops.pop()); err != nil {
			return err
		}
	}
	return nil
}

// closeParen applies operators back to the innermost open marker and discards
// the marker.
func (s *evaluation) closeParen(col int) error {
	for {
		if s.ops.empty() {
			return &SyntaxError{Col: col, Text: string(CloseParen), Err: ErrUnbalanced}
		}
		top := s.ops.pop()
		if top.op == OpenParen {
			return nil
		}
		if err := s.apply(top); err != nil {
			return err
		}
	}
}

// apply pops the right then the left operand and pushes left op right.
func (s *evaluation) apply(e opEntry) error {
	r, ok := s.vals.pop()
	if !ok {
		return &InternalError{Msg: "no operands for " + quoteByte(e.op) + " at column " + strconv.Itoa(e.col)}
	}
	l, ok := s.vals.pop()
	if !ok {
		return &InternalError{Msg: "one operand for " + quoteByte(e.op) + " at column " + strconv.Itoa(e.col)}
	}
	v, err := arith(e.op, l, r)
	if err != nil {
		if _, ok := err.(*InternalError); ok {
			return err
		}
		return &ArithmeticError{Col: e.col, Op: string(e.op), Left: l, Right: r, Err: err}
	}
	if s.ev.log != nil {
		s.ev.log.Trace().
			Int64("left", l).
			Str("op", string(e.op)).
			Int64("right", r).
			Int64("result", v).
			Msg("apply")
	}
	s.vals.push(v)
	return nil
}

// finish flushes the last operand, applies every remaining operator, and
// returns the single remaining value.
func (s *evaluation) finish() (int64, error) {
	end := len(s.src) + 1
	switch {
	case s.pending():
		if err := s.flush(); err != nil {
			return 0, err
		}
	case !s.seen:
		return 0, &SyntaxError{Col: end, Err: ErrEmpty}
	case !s.operand:
		return 0, &SyntaxError{Col: end, Err: ErrMissingOperand}
	}
	for !s.ops.empty() {
		top := s.ops.pop()
		if top.op == OpenParen {
			return 0, &SyntaxError{Col: top.col, Text: string(OpenParen), Err: ErrUnbalanced}
		}
		if err := s.apply(top); err != nil {
			return 0, err
		}
	}
	if n := s.vals.len(); n != 1 {
		return 0, &InternalError{Msg: strconv.Itoa(n) + " values left after evaluation"}
	}
	r, _ := s.vals.pop()
	return r, nil
}

func quoteByte(c byte) string {
	return strconv.QuoteRune(rune(c))
}
