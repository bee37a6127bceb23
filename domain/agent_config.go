package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Algorithm names an agent's navigation strategy.
const (
	AlgorithmAStar        = "astar"
	AlgorithmDStar        = "dstar"
	AlgorithmRandom       = "random"
	AlgorithmWallFollower = "wallfollower"
)

const (
	namePattern   = `^[a-zA-Z0-9_-]+$` // Alphanumeric with underscores and dashes
	minNameLength = 3
	maxNameLength = 32

	maxChannelLength = 32
)

var (
	nameRegex = regexp.MustCompile(namePattern)

	algorithms = map[string]bool{
		AlgorithmAStar:        true,
		AlgorithmDStar:        true,
		AlgorithmRandom:       true,
		AlgorithmWallFollower: true,
	}
	metrics = map[string]bool{
		"":          true,
		"manhattan": true,
		"euclidean": true,
	}
)

var (
	ErrNameTooShort        = errors.New("agent name too short")
	ErrNameTooLong         = errors.New("agent name too long")
	ErrInvalidName         = errors.New("invalid agent name format")
	ErrUnknownAlgorithm    = errors.New("unknown algorithm")
	ErrUnknownMetric       = errors.New("unknown distance metric")
	ErrChannelNotAllowed   = errors.New("only dstar agents can join a channel")
	ErrInvalidChannel      = errors.New("invalid channel name")
	ErrAgentConfigNotFound = errors.New("agent config not found")
	ErrAgentNameConflict   = errors.New("agent name conflict")
)

// AgentConfig is the permanent configuration of an agent. Planner state is
// never stored; it is rebuilt from this record whenever the agent races.
type AgentConfig struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Algorithm string    `json:"algorithm" bson:"algorithm"`
	Metric    string    `json:"metric,omitempty" bson:"metric"`
	Channel   string    `json:"channel,omitempty" bson:"channel"`
	Seed      int64     `json:"seed,omitempty" bson:"seed"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// AgentConfigParams holds parameters for creating an AgentConfig.
type AgentConfigParams struct {
	ID        uuid.UUID
	Name      string
	Algorithm string
	Metric    string
	Channel   string
	Seed      int64
}

// NewAgentConfig validates params and creates the configuration.
func NewAgentConfig(params AgentConfigParams) (*AgentConfig, error) {
	cfg := &AgentConfig{
		ID:        params.ID,
		Name:      params.Name,
		Algorithm: params.Algorithm,
		Metric:    params.Metric,
		Channel:   params.Channel,
		Seed:      params.Seed,
		CreatedAt: time.Now().UTC(),
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field of the configuration.
func (c *AgentConfig) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if !algorithms[c.Algorithm] {
		return ErrUnknownAlgorithm
	}
	if !metrics[c.Metric] {
		return ErrUnknownMetric
	}
	if c.Channel == "" {
		return nil
	}
	if c.Algorithm != AlgorithmDStar {
		return ErrChannelNotAllowed
	}
	if len(c.Channel) > maxChannelLength || !nameRegex.MatchString(c.Channel) {
		return ErrInvalidChannel
	}
	return nil
}

// validateName validates the agent name.
func validateName(name string) error {
	if len(name) < minNameLength {
		return ErrNameTooShort
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	if !nameRegex.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
