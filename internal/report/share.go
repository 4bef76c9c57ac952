package report

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/bodega/config"
)

// Sender delivers composed messages; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sharer hands finished artifacts to recipients.
type Sharer interface {
	Share(ctx context.Context, subject string, artifacts []Artifact, to ...string) error
}

var _ Sharer = (*MailSharer)(nil)

// MailSharer shares report artifacts as mail attachments.
type MailSharer struct {
	sender Sender
	from   string
	to     []string
}

func NewMailSharer(cfg config.MailConfig) *MailSharer {
	return &MailSharer{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Passwd),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// NewMailSharerWith uses an explicit sender.
func NewMailSharerWith(sender Sender, from string, to []string) *MailSharer {
	return &MailSharer{sender: sender, from: from, to: to}
}

// Share mails the artifacts to the given recipients, or the configured
// ones when to is empty.
func (s *MailSharer) Share(ctx context.Context, subject string, artifacts []Artifact, to ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(to) == 0 {
		to = s.to
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if len(artifacts) == 0 {
		return errors.New("nothing to share")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		data := a.Data
		m.Attach(a.Name,
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
		names = append(names, a.Name)
	}
	m.SetBody("text/plain", "Attached: "+strings.Join(names, ", "))

	if err := s.sender.DialAndSend(m); err != nil {
		zap.L().Error("share report failed",
			zap.String("namespace", "report"),
			zap.Strings("to", to),
			zap.Error(err),
		)
		return errors.Wrap(err, "send report mail")
	}
	zap.L().Info("report shared",
		zap.String("namespace", "report"),
		zap.Strings("to", to),
		zap.Strings("files", names),
	)
	return nil
}
