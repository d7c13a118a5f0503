package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/jrsteele09/sewtrack/auth"
	"github.com/jrsteele09/sewtrack/internal/config"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/jrsteele09/sewtrack/resources"
	"github.com/jrsteele09/sewtrack/session"
	"github.com/jrsteele09/sewtrack/tokenstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// routeAnnotation marks the route a command stands for. Commands without
// one are not guarded.
const routeAnnotation = "sewtrack/route"

var errNotLoggedIn = errors.New("not logged in")

type rootDeps struct {
	lookuper envconfig.Lookuper
	stdout   io.Writer
	stderr   io.Writer
}

// app is everything a command needs, built once per invocation.
type app struct {
	config    config.Config
	logger    zerolog.Logger
	store     *tokenstore.FileRepo
	session   *session.Session
	router    *navigation.Router
	client    *apiclient.Client
	auth      *auth.Service
	resources *resources.Resources
	out       *printer
}

func newApp(cmd *cobra.Command, deps rootDeps, format string, verbose bool) (*app, error) {
	cfg, err := config.LoadWith(cmd.Context(), deps.lookuper)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(deps.stderr, cfg.GetLogLevel(), verbose)
	if err != nil {
		return nil, err
	}
	log.Logger = logger

	out, err := newPrinter(deps.stdout, format)
	if err != nil {
		return nil, err
	}

	store := tokenstore.NewFileRepo(cfg.GetTokenFile())
	sess := session.New(store)
	router := navigation.NewRouter(navigation.NewGuard(sess), logger)

	options := []apiclient.Option{
		apiclient.WithNavigator(router),
		apiclient.WithLogger(logger),
		apiclient.WithUserAgent(fmt.Sprintf("sewtrack-cli/%s", Version)),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}),
	}
	if cfg.GetSharedRefresh() {
		options = append(options, apiclient.WithSharedRefresh())
	}
	client, err := apiclient.New(cfg.GetAPIURL(), sess, options...)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(sess, client, auth.WithNavigator(router), auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	res, err := resources.New(client)
	if err != nil {
		return nil, err
	}

	return &app{
		config:    cfg,
		logger:    logger,
		store:     store,
		session:   sess,
		router:    router,
		client:    client,
		auth:      authService,
		resources: res,
		out:       out,
	}, nil
}

// boot restores the stored session and applies the route guard to cmd.
func (a *app) boot(cmd *cobra.Command) error {
	if result := a.auth.InitializeAuth(); !result.Success {
		a.logger.Warn().Str("error", result.Error).Msg("starting without a stored session")
	}

	route, ok := commandRoute(cmd)
	if !ok {
		return nil
	}
	decision := a.router.Visit(route)
	if !decision.Allowed {
		return fmt.Errorf("%w: %s requires a session", errNotLoggedIn, cmd.CommandPath())
	}
	return nil
}

// commandRoute finds the route declared by cmd or its closest parent.
func commandRoute(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if route, ok := c.Annotations[routeAnnotation]; ok {
			return route, true
		}
	}
	return "", false
}

func routed(route string) map[string]string {
	return map[string]string{routeAnnotation: route}
}

func newLogger(w io.Writer, level string, verbose bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("[newLogger] invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}
