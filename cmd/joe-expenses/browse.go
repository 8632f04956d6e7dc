package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-expenses/internal/actions"
	"github.com/joestump/joe-expenses/internal/browser"
	"github.com/joestump/joe-expenses/internal/config"
	"github.com/joestump/joe-expenses/internal/format"
	"github.com/joestump/joe-expenses/internal/term"
	"github.com/joestump/joe-expenses/internal/theme"
)

var defaultRoutes = []string{"/dashboard", "/expenses", "/analytics", "/budget"}

type browseFlags struct {
	url         string
	username    string
	password    string
	email       string
	signup      bool
	toggleTheme bool
	ask         bool
	deleteIDs   []string
	deleteAcct  bool
}

func newBrowseCmd() *cobra.Command {
	var f browseFlags
	cmd := &cobra.Command{
		Use:   "browse [path...]",
		Short: "Log in and print pages from a running server",
		Long: "Browse drives the single-page client headlessly: it logs in, visits each path " +
			"in place and prints what the page shows. Without paths it visits the dashboard, " +
			"expenses, analytics and budget pages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runBrowse(cmd, cfg, f, args)
		},
	}
	cmd.Flags().StringVar(&f.url, "url", "", "server base URL (default client.base_url)")
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "username or email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (default $JOE_PASSWORD)")
	cmd.Flags().StringVar(&f.email, "email", "", "email for --signup")
	cmd.Flags().BoolVar(&f.signup, "signup", false, "create the account instead of logging in")
	cmd.Flags().BoolVar(&f.toggleTheme, "toggle-theme", false, "flip the light/dark theme before browsing")
	cmd.Flags().StringSliceVar(&f.deleteIDs, "delete-expense", nil, "expense IDs to delete after browsing")
	cmd.Flags().BoolVar(&f.deleteAcct, "delete-account", false, "delete the account when done")
	cmd.Flags().BoolVar(&f.ask, "ask", false, "ask before confirming deletions")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func runBrowse(cmd *cobra.Command, cfg *config.Config, f browseFlags, paths []string) error {
	ctx := cmd.Context()
	logger := newLogger(cfg)

	base := cfg.Client.BaseURL
	if f.url != "" {
		base = strings.TrimRight(f.url, "/")
	}
	if f.password == "" {
		f.password = os.Getenv("JOE_PASSWORD")
	}
	if len(paths) == 0 {
		paths = defaultRoutes
	}

	fm, err := format.New(cfg.Format.Locale, cfg.Format.Currency)
	if err != nil {
		return err
	}
	opts := []term.Option{term.WithFormatter(fm)}
	if f.ask {
		opts = append(opts, term.WithConfirm(prompter(cmd.InOrStdin(), cmd.ErrOrStderr())))
	}
	screen := term.NewScreen(cmd.OutOrStdout(), opts...)

	var store theme.Store = theme.NewMemoryStore("")
	if cfg.Client.ThemeFile != "" {
		store = theme.NewFileStore(cfg.Client.ThemeFile)
	}

	b, err := browser.New(base, screen, browser.Config{Formatter: fm, ThemeStore: store, Logger: logger})
	if err != nil {
		return err
	}

	if err := b.Open(ctx, "/login"); err != nil {
		return err
	}
	var r actions.Result
	if f.signup {
		r, err = b.Signup(ctx, f.username, f.email, f.password)
	} else {
		r, err = b.Login(ctx, f.username, f.password)
	}
	if err != nil {
		return err
	}
	if !r.OK() {
		return errors.New(r.Message)
	}

	if _, err := b.InitTheme(ctx); err != nil {
		logger.Warn("loading theme", "error", err.Error())
	}
	if f.toggleTheme {
		mode, err := b.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "theme: %s\n", mode)
	}

	for _, p := range paths {
		if err := b.Navigate(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	for _, id := range f.deleteIDs {
		r, err := b.DeleteExpense(ctx, id)
		if err := deletion(cmd.ErrOrStderr(), "expense "+id, r, err); err != nil {
			return err
		}
	}
	if f.deleteAcct {
		r, err := b.DeleteAccount(ctx)
		return deletion(cmd.ErrOrStderr(), "account "+f.username, r, err)
	}
	return nil
}

// deletion reports the outcome of a confirmed delete.
func deletion(out io.Writer, what string, r actions.Result, err error) error {
	if err != nil {
		return err
	}
	switch r.Outcome {
	case actions.Canceled:
		fmt.Fprintf(out, "kept %s\n", what)
	case actions.Success:
		fmt.Fprintf(out, "deleted %s\n", what)
	default:
		return fmt.Errorf("deleting %s: %s", what, r.Message)
	}
	return nil
}

// prompter reads y/n answers for confirmation prompts.
func prompter(in io.Reader, out io.Writer) func(string) bool {
	sc := bufio.NewScanner(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		if !sc.Scan() {
			return false
		}
		a := strings.ToLower(strings.TrimSpace(sc.Text()))
		return a == "y" || a == "yes"
	}
}
