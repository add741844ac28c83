// Package mailtrap is a Go client for the Mailtrap REST APIs: email sending
// (transactional, bulk and sandbox), Email Testing inboxes and messages,
// contacts, templates, sending domains, suppressions and account management.
//
// Basic usage:
//
//	client, err := mailtrap.New("your-api-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Transactional().Send(ctx, &mailtrap.SendEmailRequest{
//	    From:    mailtrap.Address{Email: "hello@example.com", Name: "Example"},
//	    To:      []mailtrap.Address{{Email: "john@example.com"}},
//	    Subject: "Welcome",
//	    Text:    "Thanks for signing up!",
//	})
//
// Account scoped APIs hang off Client.Account:
//
//	inbox := client.Account(accountID).Inbox(inboxID)
//	msg, err := inbox.Messages().Wait(ctx, mailtrap.WithSubject("Welcome"))
//
// Requests are validated before they are sent. Validation failures match
// ErrValidation; API failures are *APIError values matching the sentinel
// errors such as ErrNotFound or ErrRateLimited.
package mailtrap
