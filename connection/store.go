package connection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kalender/config"
	"kalender/store"
)

// OpenStore connects the backend named by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory store, data is lost on exit")
		return store.NewMemory(), nil
	case "sqlite":
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", zap.String("path", s.Path()))
		return s, nil
	case "firestore":
		client, err := FBConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("Firestore connection successful", zap.String("project", cfg.FirestoreProject))
		return store.NewFirestore(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
