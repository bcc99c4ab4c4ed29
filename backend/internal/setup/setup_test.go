package setup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itchan-dev/anonboard/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{
			Public:  config.Public{StorageDriver: config.StorageDriverSqlite},
			Private: config.Private{SqlitePath: ":memory:"},
		}
		store, err := OpenStorage(ctx, cfg)
		require.NoError(t, err)
		defer store.Cleanup()
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage(ctx, &config.Config{Public: config.Public{StorageDriver: "mongo"}})
		assert.Error(t, err)
	})
}

func TestSetupDependencies(t *testing.T) {
	cfg := &config.Config{
		Public:  config.Public{StorageDriver: config.StorageDriverSqlite, ThreadsPerPage: 10, NLastMsg: 3, BcryptCost: 4},
		Private: config.Private{SqlitePath: ":memory:"},
	}
	deps, err := SetupDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Storage.Cleanup()

	rr := httptest.NewRecorder()
	deps.Handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
