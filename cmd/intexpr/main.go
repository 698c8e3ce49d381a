package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/zephyrtronium/intexpr"
	"github.com/zephyrtronium/intexpr/internal/conf"
	"github.com/zephyrtronium/intexpr/internal/session"
)

// Exit statuses
const (
	// ExitStatusOK means that every expression was evaluated
	ExitStatusOK = iota
	// ExitStatusEvaluation means that at least one expression failed
	ExitStatusEvaluation
	// ExitStatusConfiguration means that the configuration or flags are invalid
	ExitStatusConfiguration
	// ExitStatusIO means that reading input or writing output failed
	ExitStatusIO
)

// cliFlags holds the command line flags.
type cliFlags struct {
	configFile string
	given      []string
	echo       bool
	color      bool
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("intexpr", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: intexpr [flags] [expression ...]\n\nWith no expressions, lines are read from standard input.\n\n")
		fs.PrintDefaults()
	}
	var flags cliFlags
	fs.StringVarP(&flags.configFile, "config", "c", "", "configuration file (default $"+conf.ConfigFileEnvVariableName+" or ./"+conf.DefaultConfigFileName+".toml)")
	fs.StringArrayVarP(&flags.given, "given", "g", nil, "name=expr variable definition (any number of times)")
	fs.BoolVar(&flags.echo, "echo", false, "print each expression with its result")
	fs.BoolVar(&flags.color, "color", true, "highlight errors")
	fs.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitStatusOK
		}
		return ExitStatusConfiguration
	}

	var config conf.ConfigStruct
	var err error
	if flags.configFile != "" {
		config, err = conf.LoadConfigurationFile(flags.configFile)
	} else {
		config, err = conf.LoadConfiguration(conf.ConfigFileEnvVariableName, conf.DefaultConfigFileName)
	}
	if err != nil {
		fmt.Fprintln(stderr, "load configuration:", err)
		return ExitStatusConfiguration
	}

	// flags override the configuration file
	logging := conf.GetLoggingConfiguration(&config)
	if flags.logLevel != "" {
		logging.LogLevel = flags.logLevel
	}
	if err := initLogging(logging, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitStatusConfiguration
	}
	output := conf.GetOutputConfiguration(&config)
	if fs.Changed("echo") {
		output.Echo = flags.echo
	}
	if fs.Changed("color") {
		output.Color = flags.color
	}

	vars := conf.GetVariables(&config)
	for name := range vars {
		if !intexpr.IsName(name) {
			log.Error().Str("name", name).Msg("Invalid variable in configuration")
			fmt.Fprintf(stderr, "configuration: invalid variable name %q\n", name)
			return ExitStatusConfiguration
		}
	}
	ev := intexpr.New(
		intexpr.SetVars(vars),
		intexpr.WithLogger(log.Logger),
	)
	for _, g := range flags.given {
		if err := bindGiven(ev, g); err != nil {
			log.Error().Err(err).Str("given", g).Msg("Invalid variable definition")
			fmt.Fprintln(stderr, err)
			return ExitStatusConfiguration
		}
	}

	s := session.New(ev, stdout, stderr, session.Options{Echo: output.Echo, Color: output.Color})
	if fs.NArg() == 0 {
		err = s.Run(stdin)
	} else {
		for _, arg := range fs.Args() {
			if lerr := s.Line(arg); lerr != nil && !session.IsLineError(lerr) {
				err = lerr
				break
			}
		}
		if err == nil {
			err = s.Err()
		}
	}
	// An I/O error takes precedence over failed lines, but the failures
	// are still reported.
	var fe *session.FailedError
	if err != nil && !errors.As(err, &fe) && errors.As(s.Err(), &fe) {
		log.Info().Int("failed", fe.Failed).Int("lines", fe.Lines).Msg("Evaluation stopped with errors")
	}
	switch {
	case err == nil:
		return ExitStatusOK
	case errors.As(err, &fe):
		log.Info().Int("failed", fe.Failed).Int("lines", fe.Lines).Msg("Evaluation finished with errors")
		return ExitStatusEvaluation
	default:
		log.Error().Err(err).Msg("I/O error")
		return ExitStatusIO
	}
}

// bindGiven evaluates a name=expr definition and binds the result.
func bindGiven(ev *intexpr.Evaluator, def string) error {
	d := strings.SplitN(def, "=", 2)
	if len(d) != 2 {
		return fmt.Errorf(`variable definitions must be "name=expr", not %q`, def)
	}
	name := strings.TrimSpace(d[0])
	if !intexpr.IsName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	v, err := ev.Evaluate(d[1])
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	ev.Bind(name, v)
	return nil
}

// initLogging configures the global zerolog logger.
func initLogging(config conf.LoggingConfiguration, w io.Writer) error {
	if config.Debug {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
	level := zerolog.WarnLevel
	if config.LogLevel != "" {
		l, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Logger.Level(level)
	return nil
}
