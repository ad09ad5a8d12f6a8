package designer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"architectai/internal/foundry"
)

// AgentAPI is the provisioning surface of the platform client.
type AgentAPI interface {
	ListAgents(ctx context.Context) ([]foundry.Agent, error)
	CreateAgent(ctx context.Context, req foundry.CreateAgentRequest) (foundry.Agent, error)
}

// AgentSource lazily produces an AgentAPI. Construction may resolve
// credentials, so it runs per provisioning attempt rather than at
// startup and its failure surfaces through GetOrCreateAgent.
type AgentSource func(ctx context.Context) (AgentAPI, error)

// defaultTools is the capability set requested on first creation.
func defaultTools() []foundry.Tool {
	return []foundry.Tool{
		{Type: "file_search"},
		{Type: "code_interpreter"},
	}
}

// Provisioner finds or creates the named design agent and caches its
// identifier. The cache holds exactly one slot, guarded by a mutex,
// and lives for the rest of the process: once populated it is never
// re-validated or invalidated.
type Provisioner struct {
	source    AgentSource
	agentName string
	model     string
	logger    *slog.Logger

	mu       sync.Mutex
	cachedID string
}

// NewProvisioner builds a provisioner for the named agent.
func NewProvisioner(source AgentSource, agentName, model string, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		source:    source,
		agentName: agentName,
		model:     model,
		logger:    logger,
	}
}

// GetOrCreateAgent returns the agent identifier, provisioning the
// agent on first use. Safe to call repeatedly and from concurrent
// requests; the mutex serializes provisioning so at most one
// list-then-create sequence runs per process.
//
// A cache hit returns immediately with no credential resolution and no
// network call. On a miss: existing agents are listed and matched by
// display name (a listing failure is logged and treated as not found);
// otherwise the agent is created with the default tool set, retrying
// exactly once with no tools before the failure becomes fatal.
func (p *Provisioner) GetOrCreateAgent(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cachedID != "" {
		return p.cachedID, nil
	}

	api, err := p.source(ctx)
	if err != nil {
		return "", fmt.Errorf("build platform client: %w", err)
	}

	if id, ok := p.findExisting(ctx, api); ok {
		p.cachedID = id
		return id, nil
	}

	id, err := p.createAgent(ctx, api)
	if err != nil {
		return "", err
	}
	p.cachedID = id
	return id, nil
}

// findExisting scans the platform's agent list for the configured
// display name. Listing failures are recoverable: they are logged and
// reported as not found so provisioning proceeds to creation.
func (p *Provisioner) findExisting(ctx context.Context, api AgentAPI) (string, bool) {
	agents, err := api.ListAgents(ctx)
	if err != nil {
		p.logger.Warn("listing agents failed, proceeding to creation", "error", err)
		return "", false
	}
	for _, agent := range agents {
		if agent.Name == p.agentName {
			p.logger.Info("found existing agent", "agent_id", agent.ID, "agent_name", agent.Name)
			return agent.ID, true
		}
	}
	return "", false
}

// createAgent creates the design agent, falling back once to a
// tool-less agent when creation with tools fails. The fallback's
// failure is fatal.
func (p *Provisioner) createAgent(ctx context.Context, api AgentAPI) (string, error) {
	request := foundry.CreateAgentRequest{
		Model:        p.model,
		Name:         p.agentName,
		Instructions: agentInstructions,
		Tools:        defaultTools(),
	}
	p.logger.Info("creating agent", "agent_name", p.agentName, "model", p.model)
	agent, err := api.CreateAgent(ctx, request)
	if err == nil {
		p.logger.Info("created agent", "agent_id", agent.ID)
		return agent.ID, nil
	}

	p.logger.Warn("agent creation with tools failed, retrying without tools", "error", err)
	request.Tools = []foundry.Tool{}
	agent, err = api.CreateAgent(ctx, request)
	if err != nil {
		return "", fmt.Errorf("create agent %q: %w", p.agentName, err)
	}
	p.logger.Info("created agent without tools", "agent_id", agent.ID)
	return agent.ID, nil
}
