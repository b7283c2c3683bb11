// AngelaMos | 2026
// bootstrap.go

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yashraj9595/edumentor-session/internal/authapi"
	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/session"
	"github.com/Yashraj9595/edumentor-session/internal/store"
)

// buildController assembles and restores a session controller from config.
// Every command goes through here, so each invocation sees the session the
// previous one persisted.
func buildController(ctx context.Context, cfg *config.Config) (*session.Controller, func(), error) {
	durable, closer, err := buildDurableStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	api := authapi.NewClient(cfg.API)

	ctrl := session.New(api, durable, store.NewMemStore(), session.Options{
		Notify:              session.SlogSink{},
		RevalidateOnRestore: cfg.Session.RevalidateOnRestore,
		Logger:              slog.Default(),
	})

	ctrl.Restore(ctx)
	return ctrl, closer, nil
}

func buildDurableStore(ctx context.Context, cfg config.StorageConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	case "memory":
		return store.NewMemStore(), func() {}, nil
	default:
		fs, err := store.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open session file: %w", err)
		}
		return fs, func() {}, nil
	}
}
