package notification

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"go.uber.org/zap"
)

const charset = "UTF-8"

type Email struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

// SESSender delivers plain-text email through Amazon SES.
type SESSender struct {
	client sesiface.SESAPI
	from   string
	logger *zap.Logger
}

func NewSESSender(region, from string, logger ...*zap.Logger) (*SESSender, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	return NewSESSenderWithClient(ses.New(sess), from, logger...), nil
}

func NewSESSenderWithClient(client sesiface.SESAPI, from string, logger ...*zap.Logger) *SESSender {
	l := zap.L().Named("notification.ses")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.ses")
	}
	return &SESSender{client: client, from: from, logger: l}
}

func (s *SESSender) Send(ctx context.Context, e Email) error {
	out, err := s.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(e.To)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(charset), Data: aws.String(e.Subject)},
			Body: &ses.Body{
				Text: &ses.Content{Charset: aws.String(charset), Data: aws.String(e.Body)},
			},
		},
	})
	if err != nil {
		return err
	}
	s.logger.Debug("email sent",
		zap.String("to", e.To),
		zap.String("message_id", aws.StringValue(out.MessageId)),
	)
	return nil
}

// NoopSender only logs. It is used when SES is not configured.
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender(logger ...*zap.Logger) *NoopSender {
	l := zap.L().Named("notification.noop")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.noop")
	}
	return &NoopSender{logger: l}
}

func (s *NoopSender) Send(ctx context.Context, e Email) error {
	s.logger.Info("email delivery disabled, skipping",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
	)
	return nil
}
