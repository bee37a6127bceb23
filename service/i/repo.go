package i

import (
	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/google/uuid"
)

// AgentConfigRepo defines the interface for agent configuration persistence.
type AgentConfigRepo interface {
	// Save inserts or updates an agent configuration.
	// If the configuration already exists, it updates the record. Otherwise, it creates a new one.
	Save(cfg *dmn.AgentConfig) error

	// ByID retrieves an agent configuration by its unique ID.
	// Returns ErrAgentConfigNotFound if there is none.
	ByID(id uuid.UUID) (*dmn.AgentConfig, error)

	// List returns up to limit configurations, newest first.
	List(limit int64) ([]*dmn.AgentConfig, error)

	// Delete removes an agent configuration.
	// Returns ErrAgentConfigNotFound if there is none.
	Delete(id uuid.UUID) error
}
