package main

// @title           Helios Connect API
// @version         1.0
// @description     Google integration service for the Helios CRM. Handles OAuth token exchange, calendar event proxying, and Gmail sending on behalf of connected accounts.

// @contact.name   Helios CRM
// @contact.url    https://github.com/helioscrm/connect-core/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	authadapter "github.com/helioscrm/connect-core/internal/adapters/driven/auth"
	"github.com/helioscrm/connect-core/internal/adapters/driven/google"
	"github.com/helioscrm/connect-core/internal/adapters/driven/postgres"
	redisadapter "github.com/helioscrm/connect-core/internal/adapters/driven/redis"
	"github.com/helioscrm/connect-core/internal/adapters/driving/http"
	"github.com/helioscrm/connect-core/internal/config"
	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/services"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Version == "dev" {
		cfg.Version = version
	}

	log.Printf("connect-core %s starting", cfg.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	dbConfig := postgres.DefaultConfig(cfg.DatabaseURL)
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Token cipher =====
	cipher, err := postgres.NewTokenCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to create token cipher: %v", err)
	}

	// ===== Driven adapters =====
	authAdapter := authadapter.NewAdapter(cfg.JWTSecret, cfg.ServiceKeyHash)

	integrationStore := postgres.NewIntegrationStore(db, cipher)
	credentialsStore := postgres.NewCredentialsStore(db)
	emailLogStore := postgres.NewEmailLogStore(db)

	oauthClient := google.NewOAuthClient(google.OAuthClientConfig{})
	calendarClient := google.NewCalendarClient(google.CalendarClientConfig{})
	mailClient := google.NewMailClient(google.MailClientConfig{})

	// ===== Distributed lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var distributedLock driven.DistributedLock
	if redisClient != nil {
		distributedLock = redisadapter.NewLock(redisClient)
		log.Println("Using Redis distributed lock")
	} else {
		distributedLock = postgres.NewAdvisoryLock(db)
		log.Println("Using PostgreSQL advisory lock")
	}

	// Centralized Google app credentials; the workspace_credentials table
	// remains as fallback for deployments that still row-scope them.
	googleCreds := &domain.WorkspaceCredentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	}

	// ===== Services =====
	stateCodec := services.NewStateCodec(cfg.JWTSecret)
	authService := services.NewAuthService(authAdapter)
	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		Codec:             stateCodec,
		Integrations:      integrationStore,
		Credentials:       googleCreds,
		LegacyCredentials: credentialsStore,
		Google:            oauthClient,
	})
	calendarService := services.NewCalendarService(services.CalendarServiceConfig{
		Integrations:      integrationStore,
		Credentials:       googleCreds,
		LegacyCredentials: credentialsStore,
		OAuth:             oauthClient,
		Calendar:          calendarClient,
		Lock:              distributedLock,
	})
	mailService := services.NewMailService(services.MailServiceConfig{
		Integrations:      integrationStore,
		Credentials:       googleCreds,
		LegacyCredentials: credentialsStore,
		OAuth:             oauthClient,
		Mail:              mailClient,
		EmailLog:          emailLogStore,
		Lock:              distributedLock,
	})

	// ===== HTTP server =====
	serverCfg := http.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	var redisPinger http.Pinger
	if redisClient != nil {
		redisPinger = redisadapter.NewLock(redisClient)
	}

	server := http.NewServer(
		serverCfg,
		authService,
		oauthService,
		calendarService,
		mailService,
		db,
		redisPinger,
	)

	log.Printf("API server starting on :%d", cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
