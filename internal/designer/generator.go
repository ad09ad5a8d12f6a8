package designer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"architectai/internal/foundry"
)

// ConversationAPI is the per-request conversation surface of the
// platform client.
type ConversationAPI interface {
	CreateThread(ctx context.Context) (foundry.Thread, error)
	CreateMessage(ctx context.Context, threadID, role, content string) (foundry.Message, error)
	CreateAndProcessRun(ctx context.Context, threadID, agentID string) (foundry.Run, error)
	ListMessages(ctx context.Context, threadID string, order foundry.MessageOrder) ([]foundry.Message, error)
}

// ConversationSource lazily produces a ConversationAPI. As with
// AgentSource, construction may resolve credentials and so runs per
// request, with failures converted to a result string.
type ConversationSource func(ctx context.Context) (ConversationAPI, error)

// AgentProvider supplies the agent identifier to run against.
type AgentProvider interface {
	GetOrCreateAgent(ctx context.Context) (string, error)
}

const (
	// msgNoInput answers empty or whitespace-only requirements.
	msgNoInput = "Error: No input provided for architecture design."

	// msgNoDocument answers runs that completed without producing
	// extractable assistant text. A benign result, not an error.
	msgNoDocument = "No design document was generated. Please try again with a more specific requirement."
)

// msgMissingEndpoint answers requests made before the platform
// endpoint is configured.
const msgMissingEndpoint = `Error: The platform endpoint is not configured.

Set PROJECT_ENDPOINT to your AI project endpoint, for example:

  PROJECT_ENDPOINT=https://<resource>.services.ai.azure.com/api/projects/<project>

No design documents can be generated until the endpoint is configured.`

// troubleshooting is appended to every converted generation failure.
const troubleshooting = `Troubleshooting:
- Verify PROJECT_ENDPOINT points at a reachable AI project.
- Verify the service identity has access to the project.
- If a managed identity client id is configured, confirm the identity exists and is assigned.
- API keys are not accepted by the agents platform; token-based identity is required.`

// Generator turns a free-text architecture requirement into a design
// document by driving one thread/run cycle against the platform.
//
// GenerateDesignDocument never returns an error: every failure mode
// terminates as a human-readable result string.
type Generator struct {
	endpoint    string
	source      ConversationSource
	provisioner AgentProvider
	logger      *slog.Logger
}

// NewGenerator builds a generator. The endpoint is only checked for
// presence here; an empty endpoint short-circuits generation with a
// remediation message instead of failing construction.
func NewGenerator(endpoint string, source ConversationSource, provisioner AgentProvider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		endpoint:    endpoint,
		source:      source,
		provisioner: provisioner,
		logger:      logger,
	}
}

// GenerateDesignDocument produces a design document for the given
// requirement. Empty input and missing endpoint configuration answer
// with fixed messages before any credential or network activity; all
// later failures are caught and converted to a message carrying the
// error text plus troubleshooting guidance.
func (g *Generator) GenerateDesignDocument(ctx context.Context, userInput string) string {
	if strings.TrimSpace(userInput) == "" {
		return msgNoInput
	}
	if strings.TrimSpace(g.endpoint) == "" {
		return msgMissingEndpoint
	}

	document, err := g.generate(ctx, userInput)
	if err != nil {
		g.logger.Error("design generation failed", "error", err)
		return fmt.Sprintf("Error in design document generation: %v\n\n%s", err, troubleshooting)
	}
	return document
}

// generate runs the thread/message/run/collect cycle.
func (g *Generator) generate(ctx context.Context, userInput string) (string, error) {
	platform, err := g.source(ctx)
	if err != nil {
		return "", fmt.Errorf("build platform client: %w", err)
	}
	agentID, err := g.provisioner.GetOrCreateAgent(ctx)
	if err != nil {
		return "", err
	}

	g.logger.Info("starting design generation", "input_preview", preview(userInput))

	thread, err := platform.CreateThread(ctx)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	g.logger.Info("created thread", "thread_id", thread.ID)

	if _, err := platform.CreateMessage(ctx, thread.ID, "user", designPrompt(userInput)); err != nil {
		return "", fmt.Errorf("post requirement: %w", err)
	}

	run, err := platform.CreateAndProcessRun(ctx, thread.ID, agentID)
	if err != nil {
		return "", fmt.Errorf("execute run: %w", err)
	}
	g.logger.Info("agent run finished", "run_id", run.ID, "status", run.Status)

	messages, err := platform.ListMessages(ctx, thread.ID, foundry.OrderDescending)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	return g.collect(messages), nil
}

// collect scans messages newest-first for the first assistant message
// with extractable text and joins its segments with newlines.
func (g *Generator) collect(messages []foundry.Message) string {
	for _, message := range messages {
		if message.Role != "assistant" || len(message.Content) == 0 {
			continue
		}
		segments := ExtractText(message)
		if len(segments) == 0 {
			continue
		}
		document := strings.Join(segments, "\n")
		g.logger.Info("generated design document", "length", len(document))
		return document
	}
	return msgNoDocument
}

// preview truncates the requirement for log lines, backing up to a
// rune boundary so multi-byte input never logs a split sequence.
func preview(input string) string {
	const n = 100
	if len(input) <= n {
		return input
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut] + "..."
}
