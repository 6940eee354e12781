// Package notify sends report notifications by email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/service"
	"github.com/joho/godotenv"
	"github.com/wneessen/go-mail"
)

// DefaultPort is the submission port used when neither the config file nor
// SMTP_PORT names one.
const DefaultPort = 587

const sendTimeout = 30 * time.Second

// Config holds the SMTP relay settings.
type Config struct {
	Server    string
	Sender    string
	Password  string
	Recipient string
	Port      int
	Retries   int
	RetryWait time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:      DefaultPort,
		Retries:   3,
		RetryWait: 2 * time.Second,
	}
}

// LoadFromEnv fills unset fields from the environment, reading a .env file in
// the working directory first if one exists. A zero Port takes SMTP_PORT, or
// DefaultPort when that is missing or malformed.
func (c *Config) LoadFromEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("Could not read .env file", "error", err)
	}

	if c.Server == "" {
		c.Server = os.Getenv("SMTP_SERVER")
	}
	if c.Sender == "" {
		c.Sender = os.Getenv("EMAIL_SENDER")
	}
	if c.Password == "" {
		c.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if c.Recipient == "" {
		c.Recipient = os.Getenv("EMAIL_RECIPIENT")
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
			c.Port = port
		}
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("%w: smtp server", common.ErrMissingConfig)
	}
	if c.Sender == "" {
		return fmt.Errorf("%w: sender address", common.ErrMissingConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: smtp port %d", common.ErrInvalidConfig, c.Port)
	}
	return nil
}

// Enabled reports whether enough settings are present to attempt delivery.
func (c *Config) Enabled() bool {
	return c.Server != "" && c.Sender != ""
}

// sendFunc delivers a built message.
type sendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPNotifier delivers messages through an authenticated mail relay.
type SMTPNotifier struct {
	send   sendFunc
	logger *slog.Logger
	config Config
}

// NewSMTPNotifier creates a notifier for the given relay.
func NewSMTPNotifier(config Config, logger *slog.Logger) (*SMTPNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	n := &SMTPNotifier{
		config: config,
		logger: logger,
	}
	n.send = n.dialAndSend
	return n, nil
}

// Notify sends msg, retrying transient failures. An empty recipient falls back
// to the configured default recipient.
func (n *SMTPNotifier) Notify(ctx context.Context, msg service.Message) error {
	to := msg.To
	if to == "" {
		to = n.config.Recipient
	}
	if to == "" {
		return fmt.Errorf("%w: no recipient for %q", common.ErrNotifyFailed, msg.Subject)
	}

	m, err := buildMessage(n.config.Sender, to, msg)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifyFailed, err)
	}

	err = common.WithRetry(ctx, func() error {
		return classify(n.send(ctx, m))
	}, service.RetryOptions{
		MaxAttempts:  n.config.Retries,
		InitialDelay: n.config.RetryWait,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifyFailed, err)
	}

	n.logger.Info("Email sent", "to", to, "subject", msg.Subject)
	return nil
}

// newClient configures a client that upgrades to STARTTLS when the relay
// offers it and authenticates with PLAIN when a password is set.
func (n *SMTPNotifier) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(n.config.Port),
		mail.WithTimeout(sendTimeout),
	}
	if n.config.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.config.Sender),
			mail.WithPassword(n.config.Password),
		)
	}
	return mail.NewClient(n.config.Server, opts...)
}

func (n *SMTPNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := n.newClient()
	if err != nil {
		return common.Permanent(fmt.Errorf("invalid relay settings: %w", err))
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// classify marks 5xx relay replies (bad credentials, unknown mailbox) as
// permanent. Anything else, including network errors, is retried.
func classify(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && sendErr.ErrorCode() >= 500 {
		return common.Permanent(err)
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && protoErr.Code >= 500 {
		return common.Permanent(err)
	}
	return err
}

func buildMessage(from, to string, msg service.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(sanitizeHeader(msg.Subject))
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
