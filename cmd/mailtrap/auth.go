package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	mailtrap "github.com/mailtrap/client-go"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API token",
	}
	cmd.AddCommand(newAuthLoginCmd(a), newAuthLogoutCmd(a), newAuthStatusCmd(a))
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify an API token and store it in the keyring",
		Long: "Reads the token from --token, MAILTRAP_API_TOKEN or the first line of stdin, " +
			"checks it against the accounts endpoint and stores it in the OS keyring.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := a.v.GetString(keyAPIToken)
			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "API token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return mailtrap.ErrMissingAPIToken
			}

			c, err := mailtrap.New(token, a.options()...)
			if err != nil {
				return err
			}
			accounts, err := c.Accounts().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("verifying token: %w", err)
			}
			if err := a.tokens.Set(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in. The token can access %d account(s).\n", len(accounts))
			return nil
		},
	}
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.tokens.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

type authStatus struct {
	Source   string             `json:"source"`
	Accounts []mailtrap.Account `json:"accounts"`
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and what it can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.authStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !a.jsonOutput() {
				fmt.Fprintf(out, "Token source: %s\n", status.Source)
			}
			return a.render(out, status, accountsTable(status.Accounts))
		},
	}
}

func (a *app) authStatus(ctx context.Context) (*authStatus, error) {
	source := "keyring"
	if a.v.GetString(keyAPIToken) != "" {
		source = "flag, environment or config"
	}
	c, err := a.apiClient()
	if err != nil {
		return nil, err
	}
	accounts, err := c.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	return &authStatus{Source: source, Accounts: accounts}, nil
}
