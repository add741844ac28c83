package main

import (
	"fmt"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"
)

func newDomainsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Inspect sending domains",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List sending domains",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				acct, err := a.account()
				if err != nil {
					return err
				}
				domains, err := acct.SendingDomains().List(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), domains, func(t *tabby.Tabby) {
					t.AddHeader("ID", "DOMAIN", "DNS VERIFIED", "COMPLIANCE")
					for _, d := range domains {
						t.AddLine(d.ID, d.DomainName, yesNo(d.DNSVerified), d.ComplianceStatus)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "check <id>",
			Short: "Check the DNS records of a sending domain",
			Long:  "Exits with a non-zero status when verification, SPF, DKIM or DMARC has not passed.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				acct, err := a.account()
				if err != nil {
					return err
				}
				d, checkErr := acct.SendingDomain(id).Check(cmd.Context())
				if d == nil {
					return checkErr
				}
				summary := d.DNSSummary()
				if err := a.render(cmd.OutOrStdout(), summary, func(t *tabby.Tabby) {
					t.AddHeader("KEY", "TYPE", "STATUS", "RECORD")
					for _, r := range d.DNSRecords {
						status := r.Status
						if status == "" {
							status = "missing"
						}
						t.AddLine(r.Key, r.Type, status, r.String())
					}
				}); err != nil {
					return err
				}
				if checkErr != nil {
					return fmt.Errorf("%s: %w", d.DomainName, checkErr)
				}
				return nil
			},
		},
	)
	return cmd
}
