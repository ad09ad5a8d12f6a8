package designer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"architectai/internal/foundry"
	"architectai/internal/testutil"
)

// stubConversationAPI scripts the per-request platform surface.
type stubConversationAPI struct {
	runErr      error
	listErr     error
	messages    []foundry.Message
	runStatus   string
	threadCalls int
}

func (s *stubConversationAPI) CreateThread(ctx context.Context) (foundry.Thread, error) {
	s.threadCalls++
	return foundry.Thread{ID: "thread_1"}, nil
}

func (s *stubConversationAPI) CreateMessage(ctx context.Context, threadID, role, content string) (foundry.Message, error) {
	return foundry.Message{ID: "msg_user", Role: role}, nil
}

func (s *stubConversationAPI) CreateAndProcessRun(ctx context.Context, threadID, agentID string) (foundry.Run, error) {
	if s.runErr != nil {
		return foundry.Run{}, s.runErr
	}
	status := s.runStatus
	if status == "" {
		status = "completed"
	}
	return foundry.Run{ID: "run_1", ThreadID: threadID, AgentID: agentID, Status: status}, nil
}

func (s *stubConversationAPI) ListMessages(ctx context.Context, threadID string, order foundry.MessageOrder) ([]foundry.Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.messages, nil
}

// stubProvider satisfies AgentProvider with a fixed id.
type stubProvider struct {
	id  string
	err error
}

func (s *stubProvider) GetOrCreateAgent(ctx context.Context) (string, error) {
	return s.id, s.err
}

func assistantMessage(t *testing.T, content string) foundry.Message {
	t.Helper()
	var parsed foundry.MessageContent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		t.Fatalf("parse content: %v", err)
	}
	return foundry.Message{ID: "msg_a", Role: "assistant", Content: parsed}
}

func newTestGenerator(api *stubConversationAPI) (*Generator, *int) {
	sourceCalls := 0
	source := func(ctx context.Context) (ConversationAPI, error) {
		sourceCalls++
		return api, nil
	}
	generator := NewGenerator("https://example.test/api/projects/demo", source, &stubProvider{id: "asst_1"}, discardLogger())
	return generator, &sourceCalls
}

func TestGenerateRejectsEmptyInputWithoutPlatformCalls(t *testing.T) {
	api := &stubConversationAPI{}
	generator, sourceCalls := newTestGenerator(api)
	ctx := testutil.Context(t, 0)

	for _, input := range []string{"", "   ", "\n\t  "} {
		result := generator.GenerateDesignDocument(ctx, input)
		if result != msgNoInput {
			t.Fatalf("input %q: got %q", input, result)
		}
	}
	if *sourceCalls != 0 || api.threadCalls != 0 {
		t.Fatalf("empty input must not reach the platform: sources=%d threads=%d",
			*sourceCalls, api.threadCalls)
	}
}

func TestGenerateAnswersMissingEndpointWithRemediation(t *testing.T) {
	sourceCalls := 0
	source := func(ctx context.Context) (ConversationAPI, error) {
		sourceCalls++
		return &stubConversationAPI{}, nil
	}
	generator := NewGenerator("", source, &stubProvider{id: "asst_1"}, discardLogger())

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "multi-region web app")
	if result != msgMissingEndpoint {
		t.Fatalf("got %q", result)
	}
	if sourceCalls != 0 {
		t.Fatalf("missing endpoint must not reach the platform")
	}
}

func TestGenerateJoinsAssistantSegmentsWithNewlines(t *testing.T) {
	api := &stubConversationAPI{
		messages: []foundry.Message{
			assistantMessage(t, `[{"type":"text","text":{"value":"Hello"}},{"type":"text","text":{"value":"World"}}]`),
		},
	}
	generator, _ := newTestGenerator(api)

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if result != "Hello\nWorld" {
		t.Fatalf("got %q", result)
	}
}

func TestGenerateUsesFirstAssistantMessageNewestFirst(t *testing.T) {
	api := &stubConversationAPI{
		messages: []foundry.Message{
			{ID: "msg_user", Role: "user", Content: foundry.MessageContent{{Kind: foundry.PartText, Text: "ignored"}}},
			assistantMessage(t, `[{"type":"text","text":{"value":"newest answer"}}]`),
			assistantMessage(t, `[{"type":"text","text":{"value":"older answer"}}]`),
		},
	}
	generator, _ := newTestGenerator(api)

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if result != "newest answer" {
		t.Fatalf("got %q", result)
	}
}

func TestGenerateReturnsBenignMessageWithoutAssistantText(t *testing.T) {
	api := &stubConversationAPI{
		messages: []foundry.Message{
			{ID: "msg_user", Role: "user", Content: foundry.MessageContent{{Kind: foundry.PartText, Text: "prompt"}}},
		},
	}
	generator, _ := newTestGenerator(api)

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if result != msgNoDocument {
		t.Fatalf("got %q", result)
	}
}

func TestGenerateConvertsRunFailureToMessage(t *testing.T) {
	api := &stubConversationAPI{
		runErr: errors.New("run exploded spectacularly"),
	}
	generator, _ := newTestGenerator(api)

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if !strings.Contains(result, "run exploded spectacularly") {
		t.Fatalf("result should carry the error text, got %q", result)
	}
	if !strings.Contains(result, "Troubleshooting") {
		t.Fatalf("result should carry troubleshooting guidance, got %q", result)
	}
}

func TestGenerateConvertsProvisioningFailureToMessage(t *testing.T) {
	source := func(ctx context.Context) (ConversationAPI, error) {
		return &stubConversationAPI{}, nil
	}
	provider := &stubProvider{err: errors.New("create agent \"architectai-design-agent\": denied")}
	generator := NewGenerator("https://example.test", source, provider, discardLogger())

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if !strings.Contains(result, "denied") {
		t.Fatalf("result should carry the provisioning failure, got %q", result)
	}
}

func TestGenerateConvertsSourceFailureToMessage(t *testing.T) {
	source := func(ctx context.Context) (ConversationAPI, error) {
		return nil, errors.New("no ambient credential available")
	}
	generator := NewGenerator("https://example.test", source, &stubProvider{id: "asst_1"}, discardLogger())

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if !strings.Contains(result, "no ambient credential available") {
		t.Fatalf("result should carry the client failure, got %q", result)
	}
}

func TestGenerateConvertsListFailureToMessage(t *testing.T) {
	api := &stubConversationAPI{
		listErr: errors.New("messages endpoint down"),
	}
	generator, _ := newTestGenerator(api)

	result := generator.GenerateDesignDocument(testutil.Context(t, 0), "chat app")
	if !strings.Contains(result, "messages endpoint down") {
		t.Fatalf("result should carry the listing failure, got %q", result)
	}
}

func TestPreviewTruncatesOnRuneBoundary(t *testing.T) {
	short := "a small requirement"
	if got := preview(short); got != short {
		t.Fatalf("short input must pass through, got %q", got)
	}

	long := strings.Repeat("界", 60)
	got := preview(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long input must be truncated, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("preview split a multi-byte sequence: %q", got)
	}
	if len(got) > 103 {
		t.Fatalf("preview too long: %d bytes", len(got))
	}
}

func TestDesignPromptEmbedsRequirement(t *testing.T) {
	prompt := designPrompt("an IoT ingestion pipeline")
	if !strings.Contains(prompt, "**Requirement**: an IoT ingestion pipeline") {
		t.Fatalf("prompt missing requirement: %q", prompt)
	}
	if !strings.Contains(prompt, "Well-Architected Framework") {
		t.Fatalf("prompt missing framing: %q", prompt)
	}
}
