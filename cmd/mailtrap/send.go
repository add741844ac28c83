package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	mailtrap "github.com/mailtrap/client-go"
)

type sendFlags struct {
	from, subject, text, html string
	category, template, mode  string
	to, cc, bcc, attach       []string
	vars                      map[string]string
}

func newSendCmd(a *app) *cobra.Command {
	f := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email",
		Long: "Sends one email through the transactional, bulk or sandbox API. " +
			"Pass --text - to read the text body from stdin.",
		Example: "  mailtrap send --from 'Shop <shop@example.com>' --to john@example.com --subject Hi --text Hello\n" +
			"  mailtrap send --mode sandbox --inbox 42 --from a@example.com --to b@example.com --template 0b1c... --var name=John",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			sender, err := a.sender(mailtrap.SendMode(f.mode))
			if err != nil {
				return err
			}
			resp, err := sender.Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), resp, func(t *tabby.Tabby) {
				t.AddHeader("MESSAGE ID")
				for _, id := range resp.MessageIDs {
					t.AddLine(id)
				}
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "sender, as an address or \"Name <address>\"")
	fl.StringArrayVar(&f.to, "to", nil, "recipient (repeatable)")
	fl.StringArrayVar(&f.cc, "cc", nil, "carbon copy recipient (repeatable)")
	fl.StringArrayVar(&f.bcc, "bcc", nil, "blind carbon copy recipient (repeatable)")
	fl.StringVar(&f.subject, "subject", "", "subject")
	fl.StringVar(&f.text, "text", "", "plain text body, or - for stdin")
	fl.StringVar(&f.html, "html", "", "HTML body")
	fl.StringVar(&f.category, "category", "", "category used for statistics")
	fl.StringVar(&f.template, "template", "", "template UUID")
	fl.StringToStringVar(&f.vars, "var", nil, "template variable key=value (repeatable)")
	fl.StringArrayVar(&f.attach, "attach", nil, "file to attach (repeatable)")
	fl.StringVar(&f.mode, "mode", string(mailtrap.SendTransactional), "sending API: transactional, bulk or sandbox")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func addresses(raw []string) ([]mailtrap.Address, error) {
	out := make([]mailtrap.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := mailtrap.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func (f *sendFlags) request(stdin io.Reader) (*mailtrap.SendEmailRequest, error) {
	from, err := mailtrap.ParseAddress(f.from)
	if err != nil {
		return nil, err
	}
	req := &mailtrap.SendEmailRequest{
		From:         from,
		Subject:      f.subject,
		Text:         f.text,
		HTML:         f.html,
		Category:     f.category,
		TemplateUUID: f.template,
	}
	if req.To, err = addresses(f.to); err != nil {
		return nil, err
	}
	if req.Cc, err = addresses(f.cc); err != nil {
		return nil, err
	}
	if req.Bcc, err = addresses(f.bcc); err != nil {
		return nil, err
	}
	if f.text == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading text body: %w", err)
		}
		req.Text = string(b)
	}
	if len(f.vars) > 0 {
		req.TemplateVariables = make(map[string]any, len(f.vars))
		for k, v := range f.vars {
			req.TemplateVariables[k] = v
		}
	}
	for _, path := range f.attach {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment: %w", err)
		}
		name := filepath.Base(path)
		req.Attachments = append(req.Attachments,
			mailtrap.NewAttachment(name, mime.TypeByExtension(filepath.Ext(name)), data))
	}
	return req, nil
}

// sender returns the EmailClient for mode. The sandbox needs --inbox.
func (a *app) sender(mode mailtrap.SendMode) (*mailtrap.EmailClient, error) {
	c, err := a.apiClient()
	if err != nil {
		return nil, err
	}
	switch mode {
	case mailtrap.SendTransactional:
		return c.Transactional(), nil
	case mailtrap.SendBulk:
		return c.Bulk(), nil
	case mailtrap.SendSandbox:
		id, err := a.inboxID()
		if err != nil {
			return nil, err
		}
		return c.Test(id), nil
	default:
		return nil, fmt.Errorf("%w: unknown send mode %q", mailtrap.ErrInvalidArgument, mode)
	}
}
