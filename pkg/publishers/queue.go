package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// sendFunc delivers one JSON body with string attributes and returns the broker's message id.
type sendFunc func(ctx context.Context, body string, attrs map[string]string) (string, error)

// queuePublisher is the SQS and SNS sink: both take a JSON body plus string
// attributes and differ only in the client call.
type queuePublisher struct {
	id   string
	typ  string
	send sendFunc
	log  logger.Logger
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

// Publish marshals evt and tags it with run_id and outcome attributes.
func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msgID, err := q.send(ctx, string(payload), eventAttributes(evt))
	if err != nil {
		q.log.ErrorObj(q.typ+" publisher send failed", "publisher_error", map[string]any{
			"publisher_id": q.id,
			"type":         q.typ,
			"error":        err.Error(),
		})
		return fmt.Errorf("send to %s: %w", q.typ, err)
	}
	q.log.DebugObj(q.typ+" publisher delivered event", "publisher_delivery", map[string]any{
		"publisher_id": q.id,
		"run_id":       evt.RunID,
		"message_id":   msgID,
	})
	return nil
}

func eventAttributes(evt Event) map[string]string {
	return map[string]string{
		"run_id":  evt.RunID,
		"outcome": evt.Outcome(),
	}
}

func sqsSender(client sqsClient, queueURL string) sendFunc {
	return func(ctx context.Context, body string, attrs map[string]string) (string, error) {
		msgAttrs := make(map[string]sqstypes.MessageAttributeValue, len(attrs))
		for k, v := range attrs {
			msgAttrs[k] = sqstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
		out, err := client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:          aws.String(queueURL),
			MessageBody:       aws.String(body),
			MessageAttributes: msgAttrs,
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	}
}

func snsSender(client snsClient, topicARN string) sendFunc {
	return func(ctx context.Context, body string, attrs map[string]string) (string, error) {
		msgAttrs := make(map[string]snstypes.MessageAttributeValue, len(attrs))
		for k, v := range attrs {
			msgAttrs[k] = snstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
		out, err := client.Publish(ctx, &sns.PublishInput{
			TopicArn:          aws.String(topicARN),
			Message:           aws.String(body),
			MessageAttributes: msgAttrs,
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	}
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AWSCredentials)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{
		id:   cfg.ID,
		typ:  TypeSQS,
		send: sqsSender(sqs.NewFromConfig(awsCfg), cfg.SQS.QueueURL),
		log:  logger.Ensure(log),
	}, nil
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{
		id:   cfg.ID,
		typ:  TypeSNS,
		send: snsSender(sns.NewFromConfig(awsCfg), cfg.SNS.TopicARN),
		log:  logger.Ensure(log),
	}, nil
}

// loadAWSConfig resolves region config, pinning static keys and a custom
// endpoint when the publisher entry sets them.
func loadAWSConfig(ctx context.Context, region string, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if creds.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(creds.Endpoint)
	}
	return cfg, nil
}
