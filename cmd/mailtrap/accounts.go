package main

import (
	"strconv"
	"strings"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	mailtrap "github.com/mailtrap/client-go"
)

func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts the token can access",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.apiClient()
			if err != nil {
				return err
			}
			accounts, err := c.Accounts().List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), accounts, accountsTable(accounts))
		},
	})
	return cmd
}

func accountsTable(accounts []mailtrap.Account) func(*tabby.Tabby) {
	return func(t *tabby.Tabby) {
		t.AddHeader("ID", "NAME", "ACCESS LEVELS")
		for _, acct := range accounts {
			levels := make([]string, len(acct.AccessLevels))
			for i, l := range acct.AccessLevels {
				levels[i] = strconv.Itoa(l)
			}
			t.AddLine(acct.ID, acct.Name, strings.Join(levels, ","))
		}
	}
}

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage testing projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects and their inboxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := a.account()
			if err != nil {
				return err
			}
			projects, err := acct.Projects().List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), projects, func(t *tabby.Tabby) {
				t.AddHeader("ID", "NAME", "INBOXES")
				for _, p := range projects {
					t.AddLine(p.ID, p.Name, len(p.Inboxes))
				}
			})
		},
	})

	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := a.account()
			if err != nil {
				return err
			}
			p, err := acct.Projects().Create(cmd.Context(), mailtrap.ProjectRequest{Name: name})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p, func(t *tabby.Tabby) {
				t.AddHeader("ID", "NAME")
				t.AddLine(p.ID, p.Name)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "project name")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)
	return cmd
}

func newBillingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "billing",
		Short: "Show usage for the current billing cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := a.account()
			if err != nil {
				return err
			}
			u, err := acct.Billing().Usage(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), u, func(t *tabby.Tabby) {
				t.AddHeader("PRODUCT", "PLAN", "COUNTER", "USED", "LIMIT", "REMAINING")
				for _, row := range []struct {
					product, plan, counter string
					c                      mailtrap.UsageCounter
				}{
					{"testing", u.Testing.Plan.Name, "sent", u.Testing.Usage.SentMessagesCount},
					{"testing", u.Testing.Plan.Name, "forwarded", u.Testing.Usage.ForwardedMessagesCount},
					{"sending", u.Sending.Plan.Name, "sent", u.Sending.Usage.SentMessagesCount},
				} {
					t.AddLine(row.product, row.plan, row.counter,
						count(row.c.Current), count(row.c.Limit), count(row.c.Remaining()))
				}
			})
		},
	}
}
