package email

import (
	"context"
	"errors"
	"strings"

	masker "github.com/goliatone/go-masker"
	"github.com/jaytaylor/html2text"
)

var (
	ErrRecipientRequired = errors.New("email: recipient required")
	ErrSenderRequired    = errors.New("email: sender required")
	ErrContentEmpty      = errors.New("email: content empty")
)

// Message is a rendered email for one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
	// Text is derived from HTML when empty.
	Text string
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Nop drops every message.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }

// PlainText converts an HTML body to its text alternative.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	plain, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return html
	}
	return plain
}

// MaskAddress hides the middle of an address for logging.
func MaskAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if masked, err := masker.Default.String("preserveEnds(2,2)", addr); err == nil {
		return masked
	}
	runes := []rune(addr)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrRecipientRequired
	}
	if strings.TrimSpace(m.HTML) == "" && strings.TrimSpace(m.Text) == "" {
		return ErrContentEmpty
	}
	return nil
}
