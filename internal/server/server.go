package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/accesscontrol"
	"github.com/integraledger/integra-api/internal/auth"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/handlers"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/middleware"
	"github.com/integraledger/integra-api/internal/queue"
	"github.com/integraledger/integra-api/internal/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	healthHandler      *handlers.HealthHandler
	documentHandler    *handlers.DocumentHandler
	reservationHandler *handlers.ReservationHandler
	claimHandler       *handlers.ClaimHandler
	attestationHandler *handlers.AttestationHandler
	adminHandler       *handlers.AdminHandler

	apiKeyService *services.APIKeyService

	// Database
	dbQueries *db.Queries
)

func InitializeHandlers() {
	// Get database connection string from environment
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}

	// Create a connection pool using pgxpool
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		logger.Fatal("Unable to parse database connection string", zap.Error(err))
	}

	// Configure the connection pool
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	// Create the connection pool
	connPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}

	// Create queries instance with the connection pool
	dbQueries = db.New(connPool)

	governorEnv := os.Getenv("GOVERNOR_ADDRESS")
	if governorEnv == "" {
		logger.Fatal("GOVERNOR_ADDRESS environment variable is required")
	}
	if !common.IsHexAddress(governorEnv) {
		logger.Fatal("GOVERNOR_ADDRESS is not a valid address")
	}
	governor := common.HexToAddress(governorEnv)

	capabilitySchema := schemaFromEnv("CAPABILITY_SCHEMA_UID", eas.DefaultCapabilitySchema)
	credentialSchema := schemaFromEnv("CREDENTIAL_SCHEMA_UID", eas.DefaultCredentialSchema)

	// The oracle backs both capability verification and credential
	// issuance. With EAS_RPC_URL set, attestations are read from the
	// chain registry; otherwise the in-memory oracle serves local and
	// test deployments, signing as the governor.
	var oracle eas.Oracle
	if rpcURL := os.Getenv("EAS_RPC_URL"); rpcURL != "" {
		contractEnv := os.Getenv("EAS_CONTRACT_ADDRESS")
		if !common.IsHexAddress(contractEnv) {
			logger.Fatal("EAS_CONTRACT_ADDRESS is not a valid address")
		}
		client, err := eas.NewClient(rpcURL, common.HexToAddress(contractEnv))
		if err != nil {
			logger.Fatal("Unable to create EAS client", zap.Error(err))
		}
		oracle = client
	} else {
		logger.Warn("EAS_RPC_URL not set, using in-memory attestation oracle")
		oracle = eas.NewMemoryOracle(governor)
	}

	// Service initialization
	documentService := services.NewDocumentService(dbQueries)
	verifier := eas.NewVerifier(oracle, capabilitySchema, documentService)
	eventService := services.NewEventService(dbQueries)
	apiKeyService = services.NewAPIKeyService(dbQueries)

	credentialService := services.NewCredentialService(oracle, credentialSchema, dbQueries)
	if os.Getenv("CREDENTIAL_QUEUE_URL") != "" {
		publisher, err := queue.NewPublisher(context.Background())
		if err != nil {
			logger.Fatal("Unable to create credential queue publisher", zap.Error(err))
		}
		credentialService = credentialService.WithPublisher(publisher)
	}

	registry := accesscontrol.NewRegistry(governor)
	tokenizationService := services.NewTokenizationService(
		registry,
		documentService,
		verifier,
		credentialService,
		eventService,
	)

	commonServices := handlers.NewCommonServices(
		documentService,
		tokenizationService,
		credentialService,
		eventService,
		apiKeyService,
		oracle,
		verifier,
	)

	// API Handler initialization
	healthHandler = handlers.NewHealthHandler()
	documentHandler = handlers.NewDocumentHandler(commonServices)
	reservationHandler = handlers.NewReservationHandler(commonServices)
	claimHandler = handlers.NewClaimHandler(commonServices)
	attestationHandler = handlers.NewAttestationHandler(commonServices)
	adminHandler = handlers.NewAdminHandler(commonServices)
}

func InitializeRoutes(router *gin.Engine) {
	// Configure and apply CORS middleware
	router.Use(configureCORS())

	// Correlation ids tie request logs to queue messages downstream
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLogger())

	// Rate limiting: a default bucket for the API, a strict one for admin
	router.Use(middleware.DefaultRateLimiter.Middleware())
	strictLimiter := middleware.StrictRateLimiter

	// Health check
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Protected routes (authentication required)
		protected := v1.Group("/")
		protected.Use(auth.EnsureValidAPIKeyOrToken(apiKeyService))
		{
			// Admin-only routes
			admin := protected.Group("/admin")
			admin.Use(strictLimiter.Middleware())
			admin.Use(auth.RequireAdminAccess())
			{
				// Role administration
				admin.POST("/roles", adminHandler.GrantRole)
				admin.DELETE("/roles", adminHandler.RevokeRole)

				// Emergency pause
				admin.POST("/pause", adminHandler.Pause)
				admin.POST("/unpause", adminHandler.Unpause)

				// Manual credential issuance
				admin.POST("/documents/:hash/credentials", adminHandler.TriggerCredentials)

				// API Key management
				admin.POST("/api-keys", adminHandler.CreateAPIKey)
				admin.DELETE("/api-keys/:id", adminHandler.DeleteAPIKey)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("", documentHandler.RegisterDocument)
				documents.GET("", documentHandler.ListDocuments)
				documents.GET("/:hash", documentHandler.GetDocument)
				documents.GET("/:hash/events", documentHandler.GetEvents)
				documents.GET("/:hash/totals", documentHandler.GetTotals)
				documents.GET("/:hash/holders", documentHandler.GetHolders)

				// Reservations
				documents.POST("/:hash/reservations", reservationHandler.Reserve)
				documents.POST("/:hash/reservations/anonymous", reservationHandler.ReserveAnonymous)
				documents.GET("/:hash/reservations/:slot", reservationHandler.GetReservation)
				documents.DELETE("/:hash/reservations/:slot", reservationHandler.Cancel)

				// Claims
				documents.POST("/:hash/claims", claimHandler.Claim)
			}

			// Attestations
			attestations := protected.Group("/attestations")
			{
				attestations.POST("/verify", attestationHandler.Verify)
				attestations.GET("/:uid", attestationHandler.GetAttestation)
			}
		}
	}
}

// schemaFromEnv reads a 32-byte schema UID from the environment, falling
// back to the platform default when unset.
func schemaFromEnv(name string, fallback common.Hash) common.Hash {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	if len(value) != 66 || value[:2] != "0x" {
		logger.Fatal(name+" must be a 0x-prefixed 32-byte hash", zap.String("value", value))
	}
	return common.HexToHash(value)
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Authorization",
		"X-API-Key",
		"X-Actor-Address",
		"X-Correlation-ID",
	}
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, router *gin.Engine, port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
