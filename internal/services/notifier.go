package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

// DeliveryResult reports a single delivery attempt. Err carries the cause on
// failure even though callers only record success or failure.
type DeliveryResult struct {
	Sent bool
	Err  error
}

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) DeliveryResult
}

// mailSender is the part of *mail.Client the notifier needs.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type smtpNotifier struct {
	from   string
	client mailSender
	logger *zap.Logger
}

// NewSMTPNotifier connects over STARTTLS with PLAIN auth. Nothing is dialled
// until the first Send.
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) (Notifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return newSMTPNotifier(cfg.From, client, logger), nil
}

func newSMTPNotifier(from string, client mailSender, logger *zap.Logger) *smtpNotifier {
	return &smtpNotifier{
		from:   from,
		client: client,
		logger: logger.Named("notifier"),
	}
}

// Send makes exactly one delivery attempt.
func (n *smtpNotifier) Send(ctx context.Context, to, subject, body string) DeliveryResult {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return n.fail(to, fmt.Errorf("invalid sender address: %w", err))
	}
	if err := msg.To(to); err != nil {
		return n.fail(to, fmt.Errorf("invalid recipient address: %w", err))
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return n.fail(to, fmt.Errorf("failed to send mail: %w", err))
	}

	n.logger.Info("notification sent", zap.String("to", to), zap.String("subject", subject))
	return DeliveryResult{Sent: true}
}

func (n *smtpNotifier) fail(to string, err error) DeliveryResult {
	n.logger.Warn("notification failed", zap.String("to", to), zap.Error(err))
	return DeliveryResult{Err: err}
}

const (
	InviteSubject = "Interview Invitation"
	RejectSubject = "Application Update"
)

// ComposeNotification returns the subject and plain-text body for a verdict.
func ComposeNotification(status models.CandidateStatus, score float64) (string, string) {
	if status == models.StatusSelected {
		return InviteSubject, fmt.Sprintf(
			"Congratulations! You scored %s%%. We invite you for an interview.",
			models.FormatScore(score),
		)
	}
	return RejectSubject, fmt.Sprintf(
		"Thank you for applying. Unfortunately, your score of %s%% did not meet our cutoff.",
		models.FormatScore(score),
	)
}
