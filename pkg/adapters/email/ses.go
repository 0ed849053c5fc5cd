package email

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
)

// SESConfig holds SES settings.
type SESConfig struct {
	From             string
	Region           string
	Profile          string
	ConfigurationSet string
	DryRun           bool
}

// SESClient abstracts the SES client for testing.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESOption func(*SES)

// WithClient injects a custom SES client.
func WithClient(c SESClient) SESOption {
	return func(s *SES) {
		if c != nil {
			s.client = c
		}
	}
}

// SES delivers email through AWS SES. The AWS client is built lazily from the
// default credential chain.
type SES struct {
	cfg    SESConfig
	logger logger.Logger

	mu     sync.Mutex
	client SESClient
}

var _ Sender = (*SES)(nil)

func NewSES(cfg SESConfig, lgr logger.Logger, opts ...SESOption) *SES {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	s := &SES{cfg: cfg, logger: lgr}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *SES) ensureClient(ctx context.Context) (SESClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.cfg.Region),
	}
	if s.cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(s.cfg.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("email: load aws config: %w", err)
	}
	s.client = ses.NewFromConfig(cfg, func(o *ses.Options) {
		o.RetryMaxAttempts = 3
	})
	return s.client, nil
}

func (s *SES) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.cfg.From) == "" {
		return ErrSenderRequired
	}
	to := MaskAddress(msg.To)
	if s.cfg.DryRun {
		s.logger.Info("email dry run, send skipped",
			logger.String("to", to),
			logger.String("subject", msg.Subject),
		)
		return nil
	}

	text := msg.Text
	if strings.TrimSpace(text) == "" {
		text = PlainText(msg.HTML)
	}

	client, err := s.ensureClient(ctx)
	if err != nil {
		return err
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{strings.TrimSpace(msg.To)},
		},
		Source: aws.String(s.cfg.From),
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: content(text),
				Html: content(msg.HTML),
			},
		},
	}
	if cs := strings.TrimSpace(s.cfg.ConfigurationSet); cs != "" {
		input.ConfigurationSetName = aws.String(cs)
	}

	if _, err := client.SendEmail(ctx, input); err != nil {
		s.logger.Error("email delivery failed", logger.String("to", to), logger.Err(err))
		return fmt.Errorf("email: ses send: %w", err)
	}
	s.logger.Info("email delivered", logger.String("to", to), logger.String("subject", msg.Subject))
	return nil
}

func content(body string) *types.Content {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	return &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")}
}
