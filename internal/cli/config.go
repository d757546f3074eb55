package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hb-platform/guidesync/internal/store"
	"github.com/hb-platform/guidesync/internal/syncer"
)

// Config holds environment-based configuration for the sync commands.
type Config struct {
	APIURL      string        `env:"GUIDESYNC_API_URL"`
	APIToken    string        `env:"GUIDESYNC_API_TOKEN"`
	StateDB     string        `env:"GUIDESYNC_STATE_DB" envDefault:"guidesync.db"`
	HTTPTimeout time.Duration `env:"GUIDESYNC_HTTP_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// newSyncClient builds a sync client from the environment, journaling into
// the state database.
func newSyncClient(cfg Config) (*syncer.Client, *store.Store, error) {
	if cfg.APIURL == "" {
		return nil, nil, NewExitError(ExitCommandError, "GUIDESYNC_API_URL is not set")
	}

	st, err := store.Open(cfg.StateDB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "opening state database", err)
	}

	var tokens syncer.TokenProvider
	if cfg.APIToken != "" {
		tokens = syncer.StaticToken(cfg.APIToken)
	}

	client, err := syncer.New(syncer.Config{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Tokens:     tokens,
		Journal:    st,
	})
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "building sync client", err)
	}
	return client, st, nil
}
