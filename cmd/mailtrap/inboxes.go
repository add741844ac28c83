package main

import (
	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"
)

func newInboxesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inboxes",
		Short: "Manage testing inboxes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List inboxes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				acct, err := a.account()
				if err != nil {
					return err
				}
				inboxes, err := acct.Inboxes().List(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), inboxes, func(t *tabby.Tabby) {
					t.AddHeader("ID", "NAME", "MESSAGES", "UNREAD", "LAST MESSAGE", "ADDRESS")
					for _, in := range inboxes {
						t.AddLine(in.ID, in.Name, count(in.EmailsCount), count(in.EmailsUnreadCount),
							agoPtr(in.LastMessageSentAt), in.EmailAddress())
					}
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show SMTP credentials and settings of the --inbox inbox",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				inbox, err := a.inbox()
				if err != nil {
					return err
				}
				in, err := inbox.Get(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), in, func(t *tabby.Tabby) {
					t.AddLine("ID", in.ID)
					t.AddLine("Name", in.Name)
					t.AddLine("Status", in.Status)
					t.AddLine("SMTP host", in.Domain)
					t.AddLine("SMTP ports", joinInts(in.SMTPPorts))
					t.AddLine("Username", in.Username)
					t.AddLine("Password", in.Password)
					t.AddLine("Max message size", bytesize(in.MaxMessageSize))
					t.AddLine("Messages", count(in.EmailsCount))
				})
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Delete every message in the --inbox inbox",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				inbox, err := a.inbox()
				if err != nil {
					return err
				}
				in, err := inbox.Clean(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), in, func(t *tabby.Tabby) {
					t.AddLine("Cleaned inbox", in.ID, in.Name)
				})
			},
		},
	)
	return cmd
}
