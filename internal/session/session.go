// Package session drives an Evaluator from lines of text, the way the intexpr
// command uses it.
//
// Each line is one of:
//
//	expr          evaluate and print the result
//	name = expr   evaluate and bind the result to name
//	/vars         print every binding
//	/unset name   remove a binding
//
// Blank lines are skipped.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/intexpr"
)

// Options controls output formatting.
type Options struct {
	// Echo prints each expression before its result.
	Echo bool
	// Color highlights errors.
	Color bool
}

// Session evaluates lines with an Evaluator and writes results to out and
// errors to errout.
type Session struct {
	ev     *intexpr.Evaluator
	out    io.Writer
	errout io.Writer
	echo   bool
	red    *color.Color
	faint  *color.Color

	lines  int
	failed int
}

// New creates a session around ev.
func New(ev *intexpr.Evaluator, out, errout io.Writer, opts Options) *Session {
	s := Session{
		ev:     ev,
		out:    out,
		errout: errout,
		echo:   opts.Echo,
		red:    color.New(color.FgRed, color.Bold),
		faint:  color.New(color.Faint),
	}
	if opts.Color {
		s.red.EnableColor()
		s.faint.EnableColor()
	} else {
		s.red.DisableColor()
		s.faint.DisableColor()
	}
	return &s
}

// NameError is an error indicating an assignment to something that is not a
// variable name.
type NameError struct {
	Name string
}

func (err *NameError) Error() string {
	return "cannot assign to " + strconv.Quote(err.Name) + ": names are lowercase letters"
}

// CommandError is an error indicating an unknown or malformed command.
type CommandError struct {
	Command string
}

func (err *CommandError) Error() string {
	return "bad command " + strconv.Quote(err.Command)
}

// FailedError is returned by Run when some lines could not be evaluated.
type FailedError struct {
	Failed, Lines int
}

func (err *FailedError) Error() string {
	return strconv.Itoa(err.Failed) + " of " + strconv.Itoa(err.Lines) + " lines failed"
}

// Line processes a single line. An error in the line is reported to errout
// and also returned.
func (s *Session) Line(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	s.lines++
	err := s.line(line)
	if err != nil {
		s.failed++
		s.report(line, err)
	}
	return err
}

func (s *Session) line(line string) error {
	if cmd := strings.TrimSpace(line); strings.HasPrefix(cmd, "/") {
		return s.command(cmd)
	}
	if k := strings.IndexByte(line, '='); k >= 0 {
		return s.assign(line, k)
	}
	v, err := s.ev.Evaluate(line)
	if err != nil {
		return err
	}
	if s.echo {
		_, err = fmt.Fprintf(s.out, "%s = %d\n", strings.TrimSpace(line), v)
	} else {
		_, err = fmt.Fprintln(s.out, v)
	}
	return err
}

// assign handles a line with = at byte k.
func (s *Session) assign(line string, k int) error {
	name := strings.TrimSpace(line[:k])
	if !intexpr.IsName(name) {
		return &NameError{Name: name}
	}
	v, err := s.ev.Evaluate(line[k+1:])
	if err != nil {
		return shifted{err, k + 1}
	}
	s.ev.Bind(name, v)
	log.Debug().Str("name", name).Int64("value", v).Msg("bind")
	if s.echo {
		_, err = fmt.Fprintf(s.out, "%s = %d\n", name, v)
	}
	return err
}

func (s *Session) command(cmd string) error {
	f := strings.Fields(cmd)
	switch {
	case f[0] == "/vars" && len(f) == 1:
		for _, name := range s.ev.Vars() {
			v, _ := s.ev.Lookup(name)
			if _, err := fmt.Fprintf(s.out, "%s = %d\n", name, v); err != nil {
				return err
			}
		}
		return nil
	case f[0] == "/unset" && len(f) > 1:
		for _, name := range f[1:] {
			s.ev.Unbind(name)
			log.Debug().Str("name", name).Msg("unbind")
		}
		return nil
	default:
		return &CommandError{Command: cmd}
	}
}

// report writes err to errout. Input errors are shown with a caret under the
// offending column.
func (s *Session) report(line string, err error) {
	var ie intexpr.InputError
	if errors.As(err, &ie) {
		col := ie.Pos()
		var sh shifted
		if errors.As(err, &sh) {
			col += sh.by
		}
		if col > len(line)+1 {
			col = len(line) + 1
		}
		s.faint.Fprintln(s.errout, line)
		fmt.Fprintln(s.errout, strings.Repeat(" ", col-1)+"^")
	}
	s.red.Fprint(s.errout, "error: ")
	fmt.Fprintln(s.errout, err)
	log.Debug().Err(err).Str("line", line).Msg("line failed")
}

// Run processes every line from r. It stops early only on a read or write
// error. If any line failed, the result is a *FailedError.
func (s *Session) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := s.Line(sc.Text()); err != nil && !IsLineError(err) {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return s.Err()
}

// IsLineError reports whether err is a problem with the content of a line, as
// opposed to a failure to write output.
func IsLineError(err error) bool {
	var ie intexpr.InputError
	var internal *intexpr.InternalError
	var ne *NameError
	var ce *CommandError
	return errors.As(err, &ie) || errors.As(err, &internal) || errors.As(err, &ne) || errors.As(err, &ce)
}

// Err returns a *FailedError if any line processed so far failed.
func (s *Session) Err() error {
	if s.failed == 0 {
		return nil
	}
	return &FailedError{Failed: s.failed, Lines: s.lines}
}

// shifted is an evaluation error in the right-hand side of an assignment. The
// error's column is relative to the expression, which begins at byte by of
// the line.
type shifted struct {
	error
	by int
}

func (err shifted) Unwrap() error {
	return err.error
}
