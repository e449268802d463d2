// Package queue publishes credential issuance work to SQS for the
// credential-processor worker.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/integraledger/integra-api/internal/logger"
	"go.uber.org/zap"
)

// CredentialMessage is the work item consumed by the credential processor.
type CredentialMessage struct {
	DocumentHash string   `json:"document_hash"`
	Holders      []string `json:"holders"`
	RequestedAt  int64    `json:"requested_at"`
}

// Publisher sends credential issuance requests to the credential queue.
type Publisher struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

// NewPublisher builds a publisher from the ambient AWS configuration and
// the CREDENTIAL_QUEUE_URL environment variable.
func NewPublisher(ctx context.Context) (*Publisher, error) {
	queueURL := os.Getenv("CREDENTIAL_QUEUE_URL")
	if queueURL == "" {
		return nil, fmt.Errorf("CREDENTIAL_QUEUE_URL environment variable is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Publisher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		logger:   logger.Log,
	}, nil
}

// PublishCredentialRequest enqueues one credential issuance message.
func (p *Publisher) PublishCredentialRequest(ctx context.Context, msg CredentialMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal credential message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send credential message: %w", err)
	}

	p.logger.Debug("Enqueued credential issuance request",
		zap.String("document", msg.DocumentHash),
		zap.Int("holders", len(msg.Holders)))
	return nil
}
