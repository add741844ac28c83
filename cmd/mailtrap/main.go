// Command mailtrap is a command line client for the Mailtrap APIs.
//
//	mailtrap auth login
//	mailtrap --account 12345 inboxes list
//	mailtrap --account 12345 messages wait --inbox 678 --subject "Welcome"
//	mailtrap send --from hello@example.com --to john@example.com --subject Hi --text "Hello"
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"

	mailtrap "github.com/mailtrap/client-go"
)

// Config holds the process level dependencies of the command.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// OpenKeyring opens the credential store used by "auth".
	OpenKeyring func() (keyring.Keyring, error)

	// EnvFiles are loaded into the environment before flags are parsed.
	// Missing files are ignored.
	EnvFiles []string
}

// DefaultConfig returns a Config using the process streams and the OS
// keyring.
func DefaultConfig() Config {
	return Config{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		OpenKeyring: openKeyring,
		EnvFiles:    []string{".env"},
	}
}

func run(args []string, cfg Config) error {
	for _, f := range cfg.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	root := newRootCmd(cfg)
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)
	return root.Execute()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, mailtrap.ErrUnauthorized), errors.Is(err, errNotLoggedIn):
		return 3
	case errors.Is(err, mailtrap.ErrNotFound):
		return 4
	case errors.Is(err, mailtrap.ErrValidation), errors.Is(err, mailtrap.ErrInvalidArgument):
		return 2
	default:
		return 1
	}
}

func fatal(w io.Writer, err error) {
	fmt.Fprintln(w, "mailtrap:", err)
	os.Exit(exitCode(err))
}
