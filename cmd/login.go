package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/protalker/protalker/pkg/state"
)

func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your training account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, store, err := newAuthProvider(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if email != "" && password != "" {
				sess, err := provider.SignIn(ctx, email, password)
				if err != nil {
					return fmt.Errorf("sign-in failed: %w", err)
				}
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), signedInAs(sess))
				return nil
			}

			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("protalker login needs --email and --password when not running in a terminal")
			}

			if email == "" {
				email = lastEmail(cfg)
			}
			restore, err := redirectLogsToFile(cfg)
			if err != nil {
				return err
			}
			defer restore()

			_, err = runLoginTUI(ctx, provider, email)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

// lastEmail returns the email of the last sign-in recorded in the state file.
func lastEmail(cfg *ProtalkerConfig) string {
	f, err := state.NewFile(cfg.Auth.StateFile)
	if err != nil {
		return ""
	}
	st, err := f.Load()
	if err != nil {
		return ""
	}
	return st.LastEmail
}

func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, store, err := newAuthProvider(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := provider.SignOut(ctx); err != nil {
				return fmt.Errorf("sign-out failed: %w", err)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}
