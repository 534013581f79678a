package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wneessen/go-mail"
)

// Mailer delivers one rendered bill to one recipient. Implementations are
// opaque to the rest of the system: an error is relayed upward as-is, with
// no retries.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachment []byte) error
}

// MailtoURL builds a mail-client draft link with the subject and body
// pre-filled. The subject parameter comes first; url.Values would sort the
// keys and put body ahead of it.
func MailtoURL(to, subject, body string) string {
	return "mailto:" + to + "?subject=" + escapeMailto(subject) + "&body=" + escapeMailto(body)
}

// Mail clients expect %20, not the + form url.QueryEscape produces.
func escapeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SMTPOptions are the transport credentials, supplied externally and never
// validated here beyond what the SMTP dialog itself enforces.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends bills through an authenticated SMTP server.
type SMTPSender struct {
	client *mail.Client
	from   string
}

var _ Mailer = (*SMTPSender)(nil)

// NewSMTPSender builds a sender from the given credentials.
func NewSMTPSender(opts SMTPOptions) (*SMTPSender, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("smtp host not configured")
	}
	client, err := mail.NewClient(opts.Host,
		mail.WithPort(opts.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(opts.Username),
		mail.WithPassword(opts.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: opts.From}, nil
}

// Send delivers the body (and the PNG summary, when given) to one
// recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string, attachment []byte) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if len(attachment) > 0 {
		if err := msg.AttachReader(SummaryFilename, bytes.NewReader(attachment)); err != nil {
			return fmt.Errorf("failed to attach summary image: %w", err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
