// Package sms delivers one-time passcodes by text message.
package sms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
)

// Sender sends a text message to a phone number in E.164 format
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// New builds the sender selected by SMS_DRIVER
func New(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.SMS.Driver {
	case "sns":
		return NewSNSSender(ctx, cfg.AWS.Region, cfg.SMS.SenderID)
	case "log", "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported sms driver %q", cfg.SMS.Driver)
	}
}

// SNSAPI is the part of the SNS client the sender uses
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes transactional SMS through AWS SNS
type SNSSender struct {
	client   SNSAPI
	senderID string
}

// NewSNSSender creates a sender from the default AWS credential chain
func NewSNSSender(ctx context.Context, region, senderID string) (*SNSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSNSSenderWithClient(sns.NewFromConfig(cfg), senderID), nil
}

// NewSNSSenderWithClient wraps an existing SNS client
func NewSNSSenderWithClient(client SNSAPI, senderID string) *SNSSender {
	return &SNSSender{client: client, senderID: senderID}
}

// Send publishes message to phone
func (s *SNSSender) Send(ctx context.Context, phone, message string) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("failed to publish sms: %w", err)
	}

	logger.Log.Debug("SMS published", zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// LogSender logs messages instead of sending them. Used in development.
type LogSender struct{}

// Send logs the message
func (LogSender) Send(ctx context.Context, phone, message string) error {
	logger.Log.Info("SMS (not sent)", zap.String("phone", phone), zap.String("message", message))
	return nil
}
