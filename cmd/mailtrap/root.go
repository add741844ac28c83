package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mailtrap "github.com/mailtrap/client-go"
)

// Configuration keys. Each is read from its flag, then MAILTRAP_<KEY>, then
// the config file.
const (
	keyAPIToken   = "api_token"
	keyAccountID  = "account_id"
	keyInboxID    = "inbox_id"
	keyBaseURL    = "base_url"
	keySendURL    = "send_url"
	keyBulkURL    = "bulk_url"
	keySandboxURL = "sandbox_url"
	keyOutput     = "output"
	keyVerbose    = "verbose"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// app is the state shared by every subcommand.
type app struct {
	cfg    Config
	v      *viper.Viper
	tokens tokenStore

	configPath string
	client     *mailtrap.Client
}

func defaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{
		cfg:    cfg,
		v:      viper.New(),
		tokens: tokenStore{open: cfg.OpenKeyring},
	}

	root := &cobra.Command{
		Use:           "mailtrap",
		Short:         "Send email and inspect Mailtrap testing inboxes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String("token", "", "API token (overrides the stored token)")
	flags.Int64("account", 0, "account ID")
	flags.Int64("inbox", 0, "testing inbox ID")
	flags.String("base-url", "", "management API base URL")
	flags.StringP("output", "o", outputTable, "output format: table or json")
	flags.BoolP("verbose", "v", false, "log HTTP activity to stderr")
	flags.StringVar(&a.configPath, "config", defaultConfigPath(), "config file")

	for key, flag := range map[string]string{
		keyAPIToken:  "token",
		keyAccountID: "account",
		keyInboxID:   "inbox",
		keyBaseURL:   "base-url",
		keyOutput:    "output",
		keyVerbose:   "verbose",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	a.v.SetEnvPrefix("MAILTRAP")
	a.v.AutomaticEnv()
	a.v.SetDefault(keyOutput, outputTable)

	root.AddCommand(
		newAuthCmd(a),
		newAccountsCmd(a),
		newProjectsCmd(a),
		newInboxesCmd(a),
		newMessagesCmd(a),
		newSendCmd(a),
		newDomainsCmd(a),
		newBillingCmd(a),
	)
	return root
}

// loadConfig reads the config file. A missing file is not an error.
func (a *app) loadConfig() error {
	a.v.SetConfigFile(a.configPath)
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config %s: %w", a.configPath, err)
		}
	}

	switch out := a.v.GetString(keyOutput); out {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", mailtrap.ErrInvalidArgument, out)
	}
	return nil
}

// token resolves the API token from flags, environment and config, falling
// back to the keyring.
func (a *app) token() (string, error) {
	if t := a.v.GetString(keyAPIToken); t != "" {
		return t, nil
	}
	return a.tokens.Get()
}

func (a *app) options() []mailtrap.Option {
	opts := []mailtrap.Option{
		mailtrap.WithLogger(newLogger(a.cfg.Stderr, a.v.GetBool(keyVerbose))),
	}
	for key, opt := range map[string]func(string) mailtrap.Option{
		keyBaseURL:    mailtrap.WithBaseURL,
		keySendURL:    mailtrap.WithSendURL,
		keyBulkURL:    mailtrap.WithBulkURL,
		keySandboxURL: mailtrap.WithSandboxURL,
	} {
		if u := a.v.GetString(key); u != "" {
			opts = append(opts, opt(u))
		}
	}
	return opts
}

// apiClient returns the client, creating it on first use.
func (a *app) apiClient() (*mailtrap.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	token, err := a.token()
	if err != nil {
		return nil, err
	}
	c, err := mailtrap.New(token, a.options()...)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *app) account() (*mailtrap.AccountResource, error) {
	c, err := a.apiClient()
	if err != nil {
		return nil, err
	}
	id := a.v.GetInt64(keyAccountID)
	if id <= 0 {
		return nil, fmt.Errorf("%w: account ID required (--account or MAILTRAP_ACCOUNT_ID)", mailtrap.ErrInvalidArgument)
	}
	return c.Account(id), nil
}

func (a *app) inboxID() (int64, error) {
	id := a.v.GetInt64(keyInboxID)
	if id <= 0 {
		return 0, fmt.Errorf("%w: inbox ID required (--inbox or MAILTRAP_INBOX_ID)", mailtrap.ErrInvalidArgument)
	}
	return id, nil
}

func (a *app) inbox() (*mailtrap.InboxResource, error) {
	acct, err := a.account()
	if err != nil {
		return nil, err
	}
	id, err := a.inboxID()
	if err != nil {
		return nil, err
	}
	return acct.Inbox(id), nil
}

func (a *app) jsonOutput() bool {
	return a.v.GetString(keyOutput) == outputJSON
}
