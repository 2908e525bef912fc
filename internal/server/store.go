package server

import (
	"context"
	"fmt"

	"github.com/iudanet/travlr/internal/server/config"
	"github.com/iudanet/travlr/internal/server/storage"
	"github.com/iudanet/travlr/internal/server/storage/boltdb"
	"github.com/iudanet/travlr/internal/server/storage/sqlite"
)

// OpenStore открывает хранилище, выбранное в конфигурации
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageBolt:
		return boltdb.New(ctx, cfg.DatabasePath)
	case config.StorageSQLite:
		return sqlite.New(ctx, cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
