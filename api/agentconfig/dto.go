// Package agentconfigapi manages stored agent configurations over HTTP.
package agentconfigapi

// CreateAgentRequest is the body of an agent creation.
type CreateAgentRequest struct {
	Name      string `json:"name" binding:"required"`
	Algorithm string `json:"algorithm" binding:"required"`
	Metric    string `json:"metric"`
	Channel   string `json:"channel"`
	Seed      int64  `json:"seed"`
}
