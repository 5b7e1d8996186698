package automation

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/config"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var _ core.Automator = (*Stub)(nil)

// Stub fakes the hub login for development and tests.
type Stub struct {
	name string
	cfg  stubConfig
}

type stubConfig struct {
	// Latency simulates the slow browser run.
	Latency time.Duration `mapstructure:"latency"`

	// Fail makes every run return an error.
	Fail bool `mapstructure:"fail"`

	// TokenTTL is the validity of the fake token.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

func NewStub(cfg config.AutomationConfig) (*Stub, error) {
	var sc stubConfig
	if err := mapstructure.Decode(cfg.Config, &sc); err != nil {
		return nil, fmt.Errorf("decoding stub automator config: %w", err)
	}
	if sc.TokenTTL <= 0 {
		sc.TokenTTL = time.Hour
	}
	return &Stub{name: cfg.Name, cfg: sc}, nil
}

func (s *Stub) Name() string {
	return s.name
}

func (s *Stub) RunBlocking(userLogin, _, _ string) (*core.AutomationArtifact, error) {
	log.Info().
		Str("automator", s.name).
		Msg("stub automation run")

	if s.cfg.Latency > 0 {
		time.Sleep(s.cfg.Latency)
	}
	if s.cfg.Fail {
		return nil, fmt.Errorf("stub automator configured to fail")
	}

	return &core.AutomationArtifact{
		Token:     fmt.Sprintf("stub_hub_token_for_%s_%d", userLogin, time.Now().Unix()),
		ExpiresAt: time.Now().Add(s.cfg.TokenTTL),
	}, nil
}
