package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/queue"
	"github.com/integraledger/integra-api/internal/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Application holds the application dependencies
type Application struct {
	db          *db.Queries
	logger      *zap.Logger
	credentials *services.CredentialService
	maxRetries  int
}

// CredentialProcessingResult represents the result of processing one message
type CredentialProcessingResult struct {
	MessageID             string `json:"message_id"`
	DocumentHash          string `json:"document_hash"`
	HolderCount           int    `json:"holder_count"`
	ProcessedSuccessfully bool   `json:"processed_successfully"`
	Error                 string `json:"error,omitempty"`
}

func main() {
	// Initialize logger
	logger.InitLogger("production")
	zapLogger := logger.Log
	defer zapLogger.Sync()

	// Create application
	app, err := createApplication(zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create application", zap.Error(err))
	}

	// Start Lambda handler
	lambda.Start(app.handleCredentialEvent)
}

func createApplication(zapLogger *zap.Logger) (*Application, error) {
	// Get configuration from environment variables
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	attesterEnv := os.Getenv("ATTESTER_ADDRESS")
	if !common.IsHexAddress(attesterEnv) {
		return nil, fmt.Errorf("ATTESTER_ADDRESS environment variable is required")
	}

	// Parse max retries (default: 3)
	maxRetries := 3
	if maxRetriesStr := os.Getenv("CREDENTIAL_MAX_RETRIES"); maxRetriesStr != "" {
		if parsed, err := strconv.Atoi(maxRetriesStr); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	// Create database connection
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create queries instance
	queries := db.New(pool)

	// The in-memory oracle mints attestation UIDs for the credential
	// records; the credentials table row is the durable output of this
	// worker, the oracle state itself does not survive instance recycling.
	oracle := eas.NewMemoryOracle(common.HexToAddress(attesterEnv))

	credentialSchema := eas.DefaultCredentialSchema
	if uid := os.Getenv("CREDENTIAL_SCHEMA_UID"); uid != "" {
		credentialSchema = common.HexToHash(uid)
	}

	return &Application{
		db:          queries,
		logger:      zapLogger,
		credentials: services.NewCredentialService(oracle, credentialSchema, queries),
		maxRetries:  maxRetries,
	}, nil
}

// handleCredentialEvent processes SQS events from the credential queue
func (app *Application) handleCredentialEvent(ctx context.Context, event events.SQSEvent) error {
	app.logger.Info("Processing credential event", zap.Int("message_count", len(event.Records)))

	var results []CredentialProcessingResult

	for _, record := range event.Records {
		result := app.processCredentialMessage(ctx, record)
		results = append(results, result)

		// Log individual result
		if result.ProcessedSuccessfully {
			app.logger.Info("Credential message processed successfully",
				zap.String("message_id", result.MessageID),
				zap.String("document", result.DocumentHash),
				zap.Int("holder_count", result.HolderCount))
		} else {
			app.logger.Error("Credential message processing failed",
				zap.String("message_id", result.MessageID),
				zap.String("document", result.DocumentHash),
				zap.String("error", result.Error))
		}
	}

	// Log summary
	successful := 0
	for _, result := range results {
		if result.ProcessedSuccessfully {
			successful++
		}
	}
	app.logger.Info("Credential event complete",
		zap.Int("total", len(results)),
		zap.Int("successful", successful),
		zap.Int("failed", len(results)-successful))

	// Credential issuance is best effort: failed messages are logged and
	// dropped rather than returned to the queue, so a bad holder can
	// never wedge the queue behind it.
	return nil
}

func (app *Application) processCredentialMessage(ctx context.Context, record events.SQSMessage) CredentialProcessingResult {
	result := CredentialProcessingResult{MessageID: record.MessageId}

	var msg queue.CredentialMessage
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		result.Error = fmt.Sprintf("failed to unmarshal message: %v", err)
		return result
	}
	result.DocumentHash = msg.DocumentHash
	result.HolderCount = len(msg.Holders)

	document := common.HexToHash(msg.DocumentHash)
	holders := make([]common.Address, 0, len(msg.Holders))
	for _, holder := range msg.Holders {
		if !common.IsHexAddress(holder) {
			app.logger.Warn("Skipping invalid holder address",
				zap.String("message_id", record.MessageId),
				zap.String("holder", holder))
			continue
		}
		holders = append(holders, common.HexToAddress(holder))
	}

	// Retry transient oracle failures with exponential backoff before
	// giving up on the message.
	operation := func() error {
		return app.credentials.IssueCredentials(ctx, document, holders)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(app.maxRetries))
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		result.Error = err.Error()
		return result
	}

	result.ProcessedSuccessfully = true
	return result
}
