package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/pulsr-ai/lingua/internal/config"
	assistantdomain "github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/domain/catalog"
	chatdomain "github.com/pulsr-ai/lingua/internal/domain/chat"
	functiondomain "github.com/pulsr-ai/lingua/internal/domain/function"
	mcpdomain "github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/domain/orchestrator"
	subtenantdomain "github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database"
	"github.com/pulsr-ai/lingua/internal/infrastructure/logger"
	"github.com/pulsr-ai/lingua/internal/infrastructure/mcptransport"
	"github.com/pulsr-ai/lingua/internal/infrastructure/provider"
	assistantrepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/assistant"
	chatrepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/chat"
	functionrepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/function"
	mcprepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/mcpserver"
	requestlogrepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/requestlog"
	subtenantrepo "github.com/pulsr-ai/lingua/internal/infrastructure/repository/subtenant"
	"github.com/pulsr-ai/lingua/internal/infrastructure/script"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/handlers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.AutoMigrate(ctx, db, logg); err != nil {
		logg.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Repositories.
	subtenants := subtenantrepo.NewRepository(db)
	memories := subtenantrepo.NewMemoryRepository(db)
	chats := chatrepo.NewRepository(db)
	messages := chatrepo.NewMessageRepository(db)
	assistants := assistantrepo.NewRepository(db)
	functions := functionrepo.NewRepository(db)
	mcpServers := mcprepo.NewRepository(db)
	requestLogs := requestlogrepo.NewRepository(db)

	// Tool infrastructure.
	engine := script.NewEngine(cfg.ScriptTimeout, logg)
	registry := functiondomain.NewRegistry(functions, engine, logg)
	transports := mcptransport.NewFactory(cfg.MCPDialTimeout, cfg.MCPCallTimeout)
	gateway := mcpdomain.NewGateway(transports, mcpServers, logg)
	aggregator := catalog.NewAggregator(registry, gateway, logg)
	providers := provider.NewFactory(cfg)

	// Domain services.
	subtenantService := subtenantdomain.NewService(subtenants, memories, logg)
	assistantService := assistantdomain.NewService(assistants, logg)
	chatService := chatdomain.NewService(chats, messages, subtenants, assistants, logg)
	functionService := functiondomain.NewService(functions, registry, engine, logg)
	mcpService := mcpdomain.NewService(mcpServers, gateway, logg)
	orchestratorService := orchestrator.NewService(
		chats, messages, memories, aggregator, registry, gateway, providers, requestLogs, logg)

	handlerProvider := handlers.NewProvider(
		subtenantService, chatService, assistantService,
		functionService, registry, aggregator, mcpService, orchestratorService, providers, logg)

	server := httpserver.New(cfg, logg, handlerProvider)
	if err := server.Run(ctx); err != nil {
		logg.Fatal().Err(err).Msg("server exited with error")
	}
	logg.Info().Msg("server stopped")
}
