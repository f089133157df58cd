package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for every domain table.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Subtenant{},
		&entities.Memory{},
		&entities.Chat{},
		&entities.Message{},
		&entities.Assistant{},
		&entities.RegisteredFunction{},
		&entities.MCPServer{},
		&entities.RequestLog{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
