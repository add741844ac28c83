package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	mailtrap "github.com/mailtrap/client-go"
)

func newMessagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Inspect messages captured by the --inbox inbox",
	}
	cmd.AddCommand(
		newMessagesListCmd(a),
		newMessagesShowCmd(a),
		newMessagesWaitCmd(a),
		newMessagesDeleteCmd(a),
		newMessagesRawCmd(a),
		newMessagesSpamCmd(a),
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid ID %q", mailtrap.ErrInvalidArgument, s)
	}
	return id, nil
}

func (a *app) message(arg string) (*mailtrap.MessageResource, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	inbox, err := a.inbox()
	if err != nil {
		return nil, err
	}
	return inbox.Message(id), nil
}

func messagesTable(msgs []*mailtrap.Message) func(*tabby.Tabby) {
	return func(t *tabby.Tabby) {
		t.AddHeader("ID", "RECEIVED", "FROM", "TO", "SUBJECT", "SIZE", "READ")
		for _, m := range msgs {
			t.AddLine(m.ID, ago(m.SentAt), m.FromEmail, m.ToEmail,
				truncate(m.Subject, 60), bytesize(m.EmailSize), yesNo(m.IsRead))
		}
	}
}

func newMessagesListCmd(a *app) *cobra.Command {
	var filter mailtrap.MessageFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inbox, err := a.inbox()
			if err != nil {
				return err
			}
			msgs, err := inbox.Messages().List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), msgs, messagesTable(msgs))
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "match subject or recipient")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().Int64Var(&filter.LastID, "last-id", 0, "list messages older than this ID")
	return cmd
}

func newMessagesShowCmd(a *app) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a message and its body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.message(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			m, err := res.Get(ctx)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.render(cmd.OutOrStdout(), m, nil)
			}
			fetch := res.TextBody
			if html {
				fetch = res.HTMLSource
			}
			body, err := fetch(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := a.render(out, m, func(t *tabby.Tabby) {
				t.AddLine("From:", m.FromEmail)
				t.AddLine("To:", m.ToEmail)
				t.AddLine("Subject:", m.Subject)
				t.AddLine("Sent:", m.SentAt.Format(time.RFC1123Z))
				t.AddLine("Size:", bytesize(m.EmailSize))
			}); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print the HTML source instead of the text body")
	return cmd
}

func newMessagesWaitCmd(a *app) *cobra.Command {
	var (
		subject, from, to string
		timeout           time.Duration
		n                 int
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until matching messages arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inbox, err := a.inbox()
			if err != nil {
				return err
			}
			opts := []mailtrap.WaitOption{mailtrap.WithWaitTimeout(timeout)}
			if subject != "" {
				opts = append(opts, mailtrap.WithSubject(subject))
			}
			if from != "" {
				opts = append(opts, mailtrap.WithFrom(from))
			}
			if to != "" {
				opts = append(opts, mailtrap.WithTo(to))
			}
			msgs, err := inbox.Messages().WaitCount(cmd.Context(), n, opts...)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), msgs, messagesTable(msgs))
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "exact subject")
	cmd.Flags().StringVar(&from, "from", "", "sender address")
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "how long to wait")
	cmd.Flags().IntVar(&n, "count", 1, "number of messages to wait for")
	return cmd
}

func newMessagesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.message(args[0])
			if err != nil {
				return err
			}
			m, err := res.Delete(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), m, func(t *tabby.Tabby) {
				t.AddLine("Deleted message", m.ID, m.Subject)
			})
		},
	}
}

func newMessagesRawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <id>",
		Short: "Print the message source in .eml format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.message(args[0])
			if err != nil {
				return err
			}
			raw, err := res.EML(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), raw)
			return err
		},
	}
}

func newMessagesSpamCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spam <id>",
		Short: "Show the spam report of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.message(args[0])
			if err != nil {
				return err
			}
			report, err := res.SpamReport(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), report, func(t *tabby.Tabby) {
				t.AddLine("Score", fmt.Sprintf("%.1f / %.1f", report.Score, report.Threshold))
				t.AddLine("Spam", yesNo(report.IsSpam()))
				t.AddLine("")
				t.AddHeader("RULE", "POINTS", "DESCRIPTION")
				for _, r := range report.TopRules(10) {
					t.AddLine(r.Name, fmt.Sprintf("%+.1f", float64(r.Points)), r.Description)
				}
			})
		},
	}
}
