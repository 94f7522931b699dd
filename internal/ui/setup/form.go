// Package setup is the configuration form used by `whatsboard configure`
// and the :configure command.
package setup

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/whatsboard/internal/credential"
	"github.com/nhle/whatsboard/internal/model"
)

// Values holds the form fields. Secrets are kept here only until Save
// writes them to the keyring.
type Values struct {
	UserName string
	BaseURL  string
	Token    string

	MessagesType string
	IMAPHost     string
	IMAPPort     string
	IMAPUser     string
	IMAPPassword string
	IMAPTLS      bool

	Provider string
	Model    string
	APIKey   string
}

// FromConfig pre-fills the form from cfg. Secret fields start empty;
// leaving them empty keeps the stored secret.
func FromConfig(cfg *model.AppConfig) *Values {
	return &Values{
		UserName:     cfg.Display.UserName,
		BaseURL:      cfg.Source.BaseURL,
		MessagesType: cfg.Messages.Type,
		IMAPHost:     cfg.Messages.IMAP.Host,
		IMAPPort:     strconv.Itoa(cfg.Messages.IMAP.Port),
		IMAPUser:     cfg.Messages.IMAP.Username,
		IMAPTLS:      cfg.Messages.IMAP.TLS,
		Provider:     cfg.AI.Provider,
		Model:        cfg.AI.Model,
	}
}

// Apply copies the non-secret fields into cfg.
func (v *Values) Apply(cfg *model.AppConfig) error {
	cfg.Display.UserName = strings.TrimSpace(v.UserName)
	cfg.Source.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Messages.Type = v.MessagesType
	cfg.AI.Provider = v.Provider
	cfg.AI.Model = strings.TrimSpace(v.Model)

	if v.MessagesType == model.MessagesIMAP {
		port, err := strconv.Atoi(strings.TrimSpace(v.IMAPPort))
		if err != nil {
			return fmt.Errorf("invalid IMAP port %q: %w", v.IMAPPort, err)
		}
		cfg.Messages.IMAP.Host = strings.TrimSpace(v.IMAPHost)
		cfg.Messages.IMAP.Port = port
		cfg.Messages.IMAP.Username = strings.TrimSpace(v.IMAPUser)
		cfg.Messages.IMAP.TLS = v.IMAPTLS
	}
	return nil
}

// Secrets returns the keyring entries to write. Empty fields are left
// out so the stored value is kept.
func (v *Values) Secrets() map[string]string {
	out := make(map[string]string)
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}

	add(credential.WhatsAppToken, v.Token)
	if v.MessagesType == model.MessagesIMAP {
		add(credential.IMAPPassword, v.IMAPPassword)
	}
	switch v.Provider {
	case model.ProviderAnthropic:
		add(credential.AnthropicAPIKey, v.APIKey)
	default:
		add(credential.GeminiAPIKey, v.APIKey)
	}
	return out
}

// SecretSetter stores one secret, e.g. credential.Set.
type SecretSetter func(key, value string) error

// Save applies v to cfg, writes the config file at path and stores the
// secrets through set.
func Save(path string, cfg *model.AppConfig, v *Values, set SecretSetter) error {
	if err := v.Apply(cfg); err != nil {
		return err
	}
	for key, value := range v.Secrets() {
		if err := set(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}
	return nil
}

// NewForm builds the configuration form over v.
func NewForm(v *Values, width int) *huh.Form {
	isIMAP := func() bool { return v.MessagesType == model.MessagesIMAP }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Description("Shown in the dashboard greeting").
				Value(&v.UserName),
			huh.NewInput().
				Title("Analyser URL").
				Description("Base URL of the WhatsApp analysis API").
				Placeholder("http://localhost:3000/api").
				Value(&v.BaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Analyser token").
				Description("Optional bearer token. Leave empty to keep the stored one").
				EchoMode(huh.EchoModePassword).
				Value(&v.Token),
			huh.NewSelect[string]().
				Title("Important messages from").
				Options(
					huh.NewOption("Analyser API", model.MessagesHTTP),
					huh.NewOption("IMAP mailbox (flagged mail)", model.MessagesIMAP),
				).
				Value(&v.MessagesType),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("IMAP Host").
				Placeholder("imap.example.com").
				Value(&v.IMAPHost).
				Validate(validateRequired("IMAP Host")),
			huh.NewInput().
				Title("IMAP Port").
				Placeholder("993").
				Value(&v.IMAPPort).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Placeholder("user@example.com").
				Value(&v.IMAPUser).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Description("Leave empty to keep the stored one").
				EchoMode(huh.EchoModePassword).
				Value(&v.IMAPPassword),
			huh.NewConfirm().
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&v.IMAPTLS),
		).WithHideFunc(func() bool { return !isIMAP() }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AI provider").
				Options(
					huh.NewOption("Google Gemini", model.ProviderGemini),
					huh.NewOption("Anthropic Claude", model.ProviderAnthropic),
				).
				Value(&v.Provider),
			huh.NewInput().
				Title("Model").
				Description("Empty uses the provider default").
				Value(&v.Model),
			huh.NewInput().
				Title("API key").
				Description("Leave empty to keep the stored one").
				EchoMode(huh.EchoModePassword).
				Value(&v.APIKey),
		),
	).WithWidth(width)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://localhost:3000/api)")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
