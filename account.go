package mailtrap

import (
	"context"
	"net/http"
)

// Account is a Mailtrap account the token has access to.
type Account struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	AccessLevels []int  `json:"access_levels"`
}

// AccountsResource is the collection of accounts.
type AccountsResource struct {
	res resource
}

// List returns every account the token can access.
func (a *AccountsResource) List(ctx context.Context) ([]Account, error) {
	out, err := execJSON[[]Account](ctx, a.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// AccountResource is a single account and the root of everything it owns.
type AccountResource struct {
	res resource
}

// Accesses returns the user, invite and token accesses of the account.
func (a *AccountResource) Accesses() *AccessesResource {
	return &AccessesResource{res: a.res.with(ResourceAccountAccess, "account_accesses")}
}

// Access returns a handle for a single account access.
func (a *AccountResource) Access(id int64) *AccessResource {
	return &AccessResource{res: a.res.withID(ResourceAccountAccess, "account_accesses", id)}
}

// Permissions returns the permission resource tree of the account.
func (a *AccountResource) Permissions() *PermissionsResource {
	return &PermissionsResource{res: a.res.with(ResourceAccount, "permissions")}
}

// Billing returns the billing information of the account.
func (a *AccountResource) Billing() *BillingResource {
	return &BillingResource{res: a.res.with(ResourceAccount, "billing")}
}

// Projects returns the testing projects of the account.
func (a *AccountResource) Projects() *ProjectsResource {
	return &ProjectsResource{res: a.res.with(ResourceProject, "projects")}
}

// Project returns a handle for a single project.
func (a *AccountResource) Project(id int64) *ProjectResource {
	return &ProjectResource{res: a.res.withID(ResourceProject, "projects", id)}
}

// Inboxes returns the testing inboxes of the account.
func (a *AccountResource) Inboxes() *InboxesResource {
	return &InboxesResource{res: a.res.with(ResourceInbox, "inboxes")}
}

// Inbox returns a handle for a single testing inbox.
func (a *AccountResource) Inbox(id int64) *InboxResource {
	return &InboxResource{res: a.res.withID(ResourceInbox, "inboxes", id)}
}

// SendingDomains returns the sending domains of the account.
func (a *AccountResource) SendingDomains() *SendingDomainsResource {
	return &SendingDomainsResource{res: a.res.with(ResourceSendingDomain, "sending_domains")}
}

// SendingDomain returns a handle for a single sending domain.
func (a *AccountResource) SendingDomain(id int64) *SendingDomainResource {
	return &SendingDomainResource{res: a.res.withID(ResourceSendingDomain, "sending_domains", id)}
}

// Suppressions returns the suppression list of the account.
func (a *AccountResource) Suppressions() *SuppressionsResource {
	return &SuppressionsResource{res: a.res.with(ResourceSuppression, "suppressions")}
}

// Suppression returns a handle for a single suppression. Suppression IDs
// are UUIDs.
func (a *AccountResource) Suppression(id string) *SuppressionResource {
	return &SuppressionResource{res: a.res.withKey(ResourceSuppression, "suppressions", id)}
}

func (a *AccountResource) contacts() resource {
	return a.res.with(ResourceContact, "contacts")
}

// Contacts returns the contacts collection.
func (a *AccountResource) Contacts() *ContactsResource {
	return &ContactsResource{res: a.contacts()}
}

// Contact returns a handle for a contact addressed by UUID or email.
func (a *AccountResource) Contact(idOrEmail string) *ContactResource {
	return &ContactResource{res: a.res.withKey(ResourceContact, "contacts", idOrEmail)}
}

// ContactLists returns the contact lists collection.
func (a *AccountResource) ContactLists() *ContactListsResource {
	return &ContactListsResource{res: a.contacts().with(ResourceContactList, "lists")}
}

// ContactList returns a handle for a single contact list.
func (a *AccountResource) ContactList(id int64) *ContactListResource {
	return &ContactListResource{res: a.contacts().withID(ResourceContactList, "lists", id)}
}

// ContactFields returns the custom contact fields collection.
func (a *AccountResource) ContactFields() *ContactFieldsResource {
	return &ContactFieldsResource{res: a.contacts().with(ResourceContactField, "fields")}
}

// ContactField returns a handle for a single contact field.
func (a *AccountResource) ContactField(id int64) *ContactFieldResource {
	return &ContactFieldResource{res: a.contacts().withID(ResourceContactField, "fields", id)}
}

// ContactImports returns the contact imports collection.
func (a *AccountResource) ContactImports() *ContactImportsResource {
	return &ContactImportsResource{res: a.contacts().with(ResourceContactImport, "imports")}
}

// ContactImport returns a handle for a single contact import.
func (a *AccountResource) ContactImport(id int64) *ContactImportResource {
	return &ContactImportResource{res: a.contacts().withID(ResourceContactImport, "imports", id)}
}

// ContactExports returns the contact exports collection.
func (a *AccountResource) ContactExports() *ContactExportsResource {
	return &ContactExportsResource{res: a.contacts().with(ResourceContactExport, "exports")}
}

// ContactExport returns a handle for a single contact export.
func (a *AccountResource) ContactExport(id int64) *ContactExportResource {
	return &ContactExportResource{res: a.contacts().withID(ResourceContactExport, "exports", id)}
}

// EmailTemplates returns the email templates collection.
func (a *AccountResource) EmailTemplates() *EmailTemplatesResource {
	return &EmailTemplatesResource{res: a.res.with(ResourceTemplate, "email_templates")}
}

// EmailTemplate returns a handle for a single email template.
func (a *AccountResource) EmailTemplate(id int64) *EmailTemplateResource {
	return &EmailTemplateResource{res: a.res.withID(ResourceTemplate, "email_templates", id)}
}
