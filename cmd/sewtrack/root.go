package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/sewtrack/auth"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/spf13/cobra"
)

func newRootCommand(deps rootDeps) *cobra.Command {
	var (
		format  string
		verbose bool
		a       *app
	)

	cmd := &cobra.Command{
		Use:           "sewtrack",
		Short:         "Command line client for the SewTrack tailoring shop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd, deps, format, verbose)
			if err != nil {
				return err
			}
			return a.boot(cmd)
		},
	}
	cmd.SetOut(deps.stdout)
	cmd.SetErr(deps.stderr)
	cmd.PersistentFlags().StringVarP(&format, "output", "o", formatJSON, "Output format: json or yaml")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and token refreshes")

	current := func() *app { return a }
	cmd.AddCommand(
		newVersionCommand(deps),
		newLoginCommand(current),
		newSignupCommand(current),
		newLogoutCommand(current),
		newStatusCommand(current),
		newProfileCommand(current),
	)
	cmd.AddCommand(newResourceCommands(current)...)
	return cmd
}

func newVersionCommand(deps rootDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(deps.stdout, "SewTrack")
			_, err := fmt.Fprintf(deps.stdout, "sewtrack %s\n", Version)
			return err
		},
	}
}

func newLoginCommand(current func() *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in and store the session",
		Annotations: routed(string(navigation.RouteLogin)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			return resultError(a, a.auth.Login(cmd.Context(), email, password))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignupCommand(current func() *app) *cobra.Command {
	var req auth.SignupRequest

	cmd := &cobra.Command{
		Use:         "signup",
		Short:       "Register a new business account",
		Annotations: routed(string(navigation.RouteSignup)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			return resultError(a, a.auth.Signup(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVar(&req.BusinessName, "business-name", "", "Business name")
	cmd.Flags().StringVar(&req.OwnerName, "name", "", "Owner name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 6 characters")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.WhatsappNumber, "whatsapp", "", "WhatsApp number")
	return cmd
}

func newLogoutCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			return resultError(a, a.auth.Logout())
		},
	}
}

type statusView struct {
	Status      string     `json:"status" yaml:"status"`
	APIURL      string     `json:"apiUrl" yaml:"apiUrl"`
	TokenFile   string     `json:"tokenFile" yaml:"tokenFile"`
	HasRefresh  bool       `json:"hasRefreshToken" yaml:"hasRefreshToken"`
	TokenExpiry *time.Time `json:"tokenExpiry,omitempty" yaml:"tokenExpiry,omitempty"`
	Expired     bool       `json:"expired,omitempty" yaml:"expired,omitempty"`
}

func newStatusCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			snap := a.session.Snapshot()
			view := statusView{
				Status:     string(snap.Status),
				APIURL:     a.client.BaseURL(),
				TokenFile:  a.store.Path(),
				HasRefresh: snap.RefreshToken != "",
			}
			if exp, ok := a.session.AccessTokenExpiry(); ok {
				view.TokenExpiry = &exp
				view.Expired = time.Now().After(exp)
			}
			return a.out.Value(view)
		},
	}
}

func newProfileCommand(current func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "profile",
		Short:       "Show or change the business profile",
		Annotations: routed(string(navigation.RouteProfile)),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Fetch the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if err := resultError(a, a.auth.FetchProfile(cmd.Context())); err != nil {
				return err
			}
			return a.out.Raw(a.session.Account().Raw)
		},
	})

	var set []string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields, e.g. --set businessName='Stitch & Co'",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			fields, err := parseAssignments(set)
			if err != nil {
				return err
			}
			if err := resultError(a, a.auth.UpdateProfile(cmd.Context(), fields)); err != nil {
				return err
			}
			return a.out.Raw(a.session.Account().Raw)
		},
	}
	update.Flags().StringArrayVar(&set, "set", nil, "Field assignment key=value (string) or key:=json, repeatable")
	cmd.AddCommand(update)
	return cmd
}

// resultError converts a failed Result into an error. A session that was
// ended while the operation ran reports as such.
func resultError(a *app, result auth.Result) error {
	if result.Success {
		return nil
	}
	if ev, ok := a.router.LastEvent(); ok && ev.Reason == navigation.ReasonSessionEnded {
		return fmt.Errorf("%w: %s", apperrors.ErrSessionEnded, result.Error)
	}
	return errors.New(result.Error)
}
