package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/source"
)

const (
	// fetchLimit caps how many flagged messages one refresh reads.
	fetchLimit = 100

	snippetMaxRunes = 280
)

// Adapter implements source.MessageSource by treating flagged mail as
// important messages.
type Adapter struct {
	client    *IMAPClient
	mailbox   string
	sinceDays int
	now       func() time.Time
}

// NewAdapter creates a new IMAP message source.
func NewAdapter(cfg model.IMAPConfig, password string) *Adapter {
	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	since := cfg.SinceDays
	if since <= 0 {
		since = 7
	}
	return &Adapter{
		client:    NewIMAPClient(cfg.Host, cfg.Port, cfg.Username, password, cfg.TLS),
		mailbox:   mailbox,
		sinceDays: since,
		now:       time.Now,
	}
}

// Type returns the source type identifier for email.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeEmail
}

// ValidateConnection verifies credentials by logging in and out.
// Returns a human-readable status message on success.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	client, err := a.client.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("validating IMAP connection: %w", err)
	}
	_ = client.Logout().Wait()
	return "connected as " + a.client.username, nil
}

// FetchImportantMessages returns flagged messages from the configured
// mailbox within the look-back window.
func (a *Adapter) FetchImportantMessages(ctx context.Context) ([]model.Message, error) {
	since := a.now().AddDate(0, 0, -a.sinceDays)

	parsed, err := a.client.FetchFlagged(ctx, a.mailbox, since, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching flagged mail: %w", err)
	}

	msgs := make([]model.Message, 0, len(parsed))
	for _, p := range parsed {
		msgs = append(msgs, parsedToMessage(p))
	}
	return msgs, nil
}

// parsedToMessage converts a parsed IMAP message to a model.Message.
func parsedToMessage(p ParsedMessage) model.Message {
	env := p.Envelope

	id := "email-" + sanitizeID(env.MessageID)
	if env.MessageID == "" {
		id = fmt.Sprintf("email-uid-%d", env.UID)
	}

	body := strings.TrimSpace(p.TextBody)
	if body == "" {
		body = stripHTML(p.HTMLBody)
	}

	text := env.Subject
	if snippet := truncate(collapseSpace(body), snippetMaxRunes); snippet != "" {
		if text != "" {
			text += ": "
		}
		text += snippet
	}

	return model.Message{
		ID:         id,
		From:       env.From,
		Body:       text,
		ReceivedAt: env.Date,
	}
}

// idUnsafeChars matches characters that are not safe in a message ID.
var idUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeID(s string) string {
	return idUnsafeChars.ReplaceAllString(s, "_")
}

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes HTML tags from a string and decodes common
// entities, providing a basic plain-text rendering.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range []string{"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>"} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = htmlTagPattern.ReplaceAllString(result, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	return strings.TrimSpace(replacer.Replace(result))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
