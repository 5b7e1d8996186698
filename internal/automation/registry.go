// Package automation builds the browser-automation collaborator from
// configuration. The collaborator is opaque to the core: a blocking,
// non-cancellable call that either yields a session token or fails.
package automation

import (
	"fmt"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/config"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

func Build(cfg config.AutomationConfig) (core.Automator, error) {
	switch cfg.Type {
	case "stub":
		return NewStub(cfg)
	case "command":
		auto, err := NewCommand(cfg)
		if err != nil {
			return nil, fmt.Errorf("building command automator %q: %w", cfg.Name, err)
		}
		return auto, nil
	default:
		return nil, fmt.Errorf("unknown automator type %q for automator %q", cfg.Type, cfg.Name)
	}
}
