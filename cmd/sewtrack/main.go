package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", userMessage(err))
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// a missing .env is normal outside development
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(rootDeps{
		lookuper: envconfig.OsLookuper(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// userMessage turns the errors a user can act on into plain instructions.
func userMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrSessionEnded):
		return "session expired, log in again"
	case apperrors.Is(err, errNotLoggedIn):
		return "not logged in, run 'sewtrack login' first"
	}

	c := apperrors.Classify(err)
	if c.IsNetworkError {
		return "could not reach the server, check SEWTRACK_API_URL and your connection"
	}
	return c.Message
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
