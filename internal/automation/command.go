package automation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/config"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var _ core.Automator = (*Command)(nil)

// Command runs an external browser-automation program. Credentials are
// passed through the environment, never on the command line; the program
// prints a JSON artifact on stdout:
//
//	{"token": "...", "expires_at": "2025-06-01T15:04:05Z"}
//
// The run is blocking and non-cancellable. The orchestrator's worker pool
// owns the call; callers that give up waiting do not interrupt it.
type Command struct {
	name string
	cfg  commandConfig
}

type commandConfig struct {
	// Path of the automation program.
	Path string `mapstructure:"path"`

	// Args passed verbatim before the credentials environment is applied.
	Args []string `mapstructure:"args"`
}

type commandArtifact struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewCommand(cfg config.AutomationConfig) (*Command, error) {
	var cc commandConfig
	if err := mapstructure.Decode(cfg.Config, &cc); err != nil {
		return nil, fmt.Errorf("decoding command automator config: %w", err)
	}
	if cc.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return &Command{name: cfg.Name, cfg: cc}, nil
}

func (c *Command) Name() string {
	return c.name
}

func (c *Command) RunBlocking(userLogin, password, mfaCode string) (*core.AutomationArtifact, error) {
	cmd := exec.Command(c.cfg.Path, c.cfg.Args...)
	cmd.Env = append(cmd.Environ(),
		"HUB_USER_LOGIN="+userLogin,
		"HUB_PASSWORD="+password,
		"HUB_MFA_CODE="+mfaCode,
	)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("automation program exited with %d: %s", exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("running automation program: %w", err)
	}

	var artifact commandArtifact
	if err := json.Unmarshal(out, &artifact); err != nil {
		return nil, fmt.Errorf("parsing automation output: %w", err)
	}
	if artifact.Token == "" {
		return nil, fmt.Errorf("automation program returned an empty token")
	}
	if artifact.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("automation program returned no expiry")
	}

	return &core.AutomationArtifact{
		Token:     artifact.Token,
		ExpiresAt: artifact.ExpiresAt,
	}, nil
}
