package foundry

import (
	"context"
	"net/http"
)

// Agent is a named, reusable configuration bundle hosted by the
// platform: a model, an instruction prompt, and a tool set.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
}

// Tool declares one tool capability on an agent.
type Tool struct {
	Type string `json:"type"`
}

// CreateAgentRequest carries the fields for agent creation. Tools may
// be empty; the platform accepts a tool-less agent.
type CreateAgentRequest struct {
	Model        string `json:"model"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Tools        []Tool `json:"tools"`
}

// agentList matches the platform's paginated list envelope.
type agentList struct {
	Data    []Agent `json:"data"`
	HasMore bool    `json:"has_more"`
	LastID  string  `json:"last_id"`
}

// ListAgents returns the agents defined on the project, following
// pagination to the end.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	after := ""
	for {
		query := listQuery(after)
		var page agentList
		if err := c.doJSON(ctx, http.MethodGet, "/assistants", query, nil, &page); err != nil {
			return nil, err
		}
		agents = append(agents, page.Data...)
		if !page.HasMore || page.LastID == "" {
			return agents, nil
		}
		after = page.LastID
	}
}

// CreateAgent creates a new agent and returns it.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (Agent, error) {
	if req.Tools == nil {
		req.Tools = []Tool{}
	}
	var agent Agent
	if err := c.doJSON(ctx, http.MethodPost, "/assistants", nil, req, &agent); err != nil {
		return Agent{}, err
	}
	return agent, nil
}
