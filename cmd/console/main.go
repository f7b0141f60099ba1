package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: console [-config file] <command> [flags]

Commands:
  login [-u username]   sign in with a username and password
  logout                end the current session
  status                show the current session
  providers             list third-party login providers
  tokens [-revoke id]   list or revoke your active sessions
  serve                 run the login callback listener until interrupted
`

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintf(os.Stderr, "%s\n\n", err)
			}
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	flags := flag.NewFlagSet("console", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("config", os.Getenv("CONSOLE_CONFIG"), "path to a TOML config file")
	if err := flags.Parse(args); err != nil || flags.NArg() == 0 {
		return errUsage
	}

	c, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	setupLogging(c)

	ctx := context.Background()
	a, err := newApp(ctx, c, out)
	if err != nil {
		return err
	}
	defer a.Close()

	command, commandArgs := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "login":
		return a.login(ctx, commandArgs)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status()
	case "providers":
		return a.providers(ctx)
	case "tokens":
		return a.tokens(ctx, commandArgs)
	case "serve":
		return a.serve(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", c.GetAppName()).Logger()
}
