package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/anonboard/backend/internal/handler"
	"github.com/itchan-dev/anonboard/backend/internal/integrity"
	"github.com/itchan-dev/anonboard/backend/internal/service"
	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/backend/internal/storage/pg"
	"github.com/itchan-dev/anonboard/backend/internal/storage/sqlite"
	"github.com/itchan-dev/anonboard/backend/internal/utils"
	"github.com/itchan-dev/anonboard/shared/config"
)

// Store is an entity store that owns its connections.
type Store interface {
	storage.Storage
	Cleanup() error
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage Store
	Handler *handler.Handler
	Config  *config.Config
}

// SetupDependencies opens the configured store and wires services and handlers on top of it.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hasher := utils.NewHasher(cfg.Public.BcryptCost)
	validator := &utils.PostValidator{}
	links := integrity.New()

	board := service.NewBoard(store, validator)
	thread := service.NewThread(store, board, hasher, validator, links)
	reply := service.NewReply(store, hasher, validator, links)

	h := handler.New(board, thread, reply, store, cfg)

	return &Dependencies{
		Storage: store,
		Handler: h,
		Config:  cfg,
	}, nil
}

func OpenStorage(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Public.StorageDriver {
	case config.StorageDriverPostgres:
		s, err := pg.New(ctx, cfg.Private.Pg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageDriverSqlite:
		s, err := sqlite.New(ctx, cfg.Private.SqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Public.StorageDriver)
	}
}
