// Package cli implements tmanctl, the command-line dashboard for TMan Origins staff.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tmanorigins/tman-server/internal/admin"
	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/logger"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

type options struct {
	apiURL      string
	sessionFile string
	envFile     string
	output      string
	timeout     time.Duration
	debug       bool
}

// app is the state shared by every command of one invocation.
type app struct {
	opts    options
	client  *client.Client
	ctl     *admin.Controller
	session sessionFile
	log     *logger.Logger
}

// RootCmd builds the tmanctl command tree.
func RootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tmanctl",
		Short:         "Manage TMan Origins creators and applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.saveSession()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.apiURL, "api", "", "API origin (default $TMAN_API or http://localhost:8080)")
	pf.StringVar(&a.opts.sessionFile, "session-file", "", "Where the admin session is kept between runs")
	pf.StringVar(&a.opts.envFile, "env-file", ".env", "Path to .env file")
	pf.StringVarP(&a.opts.output, "output", "o", OutputText, "Output format: text or json")
	pf.DurationVar(&a.opts.timeout, "timeout", 15*time.Second, "Per-request timeout")
	pf.BoolVar(&a.opts.debug, "debug", false, "Log HTTP traffic")

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		forgotCmd(a),
		resetCmd(a),
		creatorsCmd(a),
		applicationsCmd(a),
		applyCmd(a),
		healthCmd(a),
	)

	return root
}

// Execute runs tmanctl with the process arguments.
func Execute(ctx context.Context) int {
	root := RootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.opts.envFile != "" {
		if err := godotenv.Load(a.opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.opts.envFile, err)
		}
	}
	if a.opts.output != OutputText && a.opts.output != OutputJSON {
		return fmt.Errorf("invalid output format %q (must be text or json)", a.opts.output)
	}

	a.opts.apiURL = firstNonEmpty(a.opts.apiURL, os.Getenv("TMAN_API"), "http://localhost:8080")
	if a.opts.sessionFile == "" {
		path, err := defaultSessionPath()
		if err != nil {
			return err
		}
		a.opts.sessionFile = path
	}
	a.session = sessionFile{path: a.opts.sessionFile}

	level := slog.LevelWarn
	if a.opts.debug {
		level = slog.LevelDebug
	}
	a.log = logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Level:       level,
		Environment: "development",
	})

	c, err := client.New(client.Options{
		BaseURL: a.opts.apiURL,
		Timeout: a.opts.timeout,
		Retries: 2,
		Logger:  a.log.Component("client"),
	})
	if err != nil {
		return err
	}

	token, err := a.session.Load()
	if err != nil {
		return err
	}
	c.SetSessionToken(token)

	a.client = c
	a.ctl = admin.NewController(c, a.log.Component("dashboard"))
	return nil
}

func (a *app) saveSession() error {
	if a.client == nil {
		return nil
	}
	return a.session.Save(a.client.SessionToken())
}

// requireSession confirms the saved session is still valid.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.ctl.CheckSession(ctx); err != nil {
		return err
	}
	if !a.ctl.State().Authenticated() {
		return errors.New("not logged in: run `tmanctl login`")
	}
	return nil
}

// outcome reports the result of a controller action: the state's message on success, its
// error text otherwise.
func (a *app) outcome(cmd *cobra.Command, err error) error {
	s := a.ctl.State()
	if err != nil {
		if s.Error != "" {
			return errors.New(s.Error)
		}
		return err
	}
	if s.Message != "" && a.opts.output == OutputText {
		fmt.Fprintln(cmd.OutOrStdout(), s.Message)
	}
	return nil
}

func defaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "tmanctl", "session"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

