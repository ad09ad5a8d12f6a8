package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// fakeAgent is one provisioned agent record.
type fakeAgent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
	Tools []struct {
		Type string `json:"type"`
	} `json:"tools"`
}

// fakeMessage is one thread message. Content is raw JSON so tests can
// exercise every wire shape the real platform produces.
type fakeMessage struct {
	ID      string          `json:"id"`
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// FakePlatform is an in-memory Agents API server. Behavior knobs are
// plain fields; set them before issuing requests. Call counters allow
// asserting on the exact network activity a code path produced.
type FakePlatform struct {
	mu sync.Mutex

	agents   []fakeAgent
	messages map[string][]fakeMessage
	runs     map[string]*fakeRun

	// PendingPolls is how many status polls report "in_progress"
	// before a run reaches its terminal status.
	PendingPolls int

	// FailList makes agent listing return HTTP 500.
	FailList bool

	// FailCreateWithTools rejects agent creation when the request
	// declares a non-empty tool set.
	FailCreateWithTools bool

	// FailAllCreates rejects every agent creation.
	FailAllCreates bool

	// RunStatus is the terminal status reported for runs. Defaults
	// to "completed".
	RunStatus string

	// ReplyContent is the content payload of the assistant message
	// appended when a run completes. Nil means the run produces no
	// assistant message.
	ReplyContent json.RawMessage

	ListAgentCalls    int
	CreateAgentCalls  int
	CreateThreadCalls int
	CreateRunCalls    int

	server *httptest.Server
}

// StartFakePlatform launches the fake server and ties its lifetime to
// the test.
func StartFakePlatform(t testing.TB) *FakePlatform {
	t.Helper()
	f := &FakePlatform{
		messages: map[string][]fakeMessage{},
		runs:     map[string]*fakeRun{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assistants", f.handleListAgents)
	mux.HandleFunc("POST /assistants", f.handleCreateAgent)
	mux.HandleFunc("POST /threads", f.handleCreateThread)
	mux.HandleFunc("POST /threads/{thread}/messages", f.handleCreateMessage)
	mux.HandleFunc("GET /threads/{thread}/messages", f.handleListMessages)
	mux.HandleFunc("POST /threads/{thread}/runs", f.handleCreateRun)
	mux.HandleFunc("GET /threads/{thread}/runs/{run}", f.handleGetRun)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the fake platform endpoint.
func (f *FakePlatform) URL() string {
	return f.server.URL
}

// SeedAgent registers an existing agent and returns its id.
func (f *FakePlatform) SeedAgent(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "asst_" + uuid.NewString()
	f.agents = append(f.agents, fakeAgent{ID: id, Name: name})
	return id
}

// ReplyWithText configures the assistant reply as a single text
// segment in the nested {"value": ...} wire shape.
func (f *FakePlatform) ReplyWithText(text string) {
	payload, _ := json.Marshal([]map[string]any{
		{"type": "text", "text": map[string]any{"value": text, "annotations": []any{}}},
	})
	f.ReplyContent = payload
}

func (f *FakePlatform) handleListAgents(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListAgentCalls++
	if f.FailList {
		writeFakeError(w, http.StatusInternalServerError, "server_error", "listing unavailable")
		return
	}
	writeFakeJSON(w, map[string]any{"data": f.agents, "has_more": false})
}

func (f *FakePlatform) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateAgentCalls++
	var agent fakeAgent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeFakeError(w, http.StatusBadRequest, "invalid_request", "bad agent body")
		return
	}
	if f.FailAllCreates {
		writeFakeError(w, http.StatusInternalServerError, "server_error", "creation unavailable")
		return
	}
	if f.FailCreateWithTools && len(agent.Tools) > 0 {
		writeFakeError(w, http.StatusBadRequest, "tool_not_available", "requested tools are not enabled")
		return
	}
	agent.ID = "asst_" + uuid.NewString()
	f.agents = append(f.agents, agent)
	writeFakeJSON(w, agent)
}

func (f *FakePlatform) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateThreadCalls++
	id := "thread_" + uuid.NewString()
	f.messages[id] = nil
	writeFakeJSON(w, map[string]string{"id": id})
}

func (f *FakePlatform) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	threadID := r.PathValue("thread")
	if _, ok := f.messages[threadID]; !ok {
		writeFakeError(w, http.StatusNotFound, "not_found", "no such thread")
		return
	}
	var body struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFakeError(w, http.StatusBadRequest, "invalid_request", "bad message body")
		return
	}
	content, _ := json.Marshal(body.Content)
	message := fakeMessage{
		ID:      "msg_" + uuid.NewString(),
		Role:    body.Role,
		Content: content,
	}
	f.messages[threadID] = append(f.messages[threadID], message)
	writeFakeJSON(w, message)
}

func (f *FakePlatform) handleListMessages(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	threadID := r.PathValue("thread")
	stored, ok := f.messages[threadID]
	if !ok {
		writeFakeError(w, http.StatusNotFound, "not_found", "no such thread")
		return
	}
	ordered := stored
	if r.URL.Query().Get("order") != "asc" {
		ordered = make([]fakeMessage, len(stored))
		for i, message := range stored {
			ordered[len(stored)-1-i] = message
		}
	}
	writeFakeJSON(w, map[string]any{"data": ordered, "has_more": false})
}

func (f *FakePlatform) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateRunCalls++
	threadID := r.PathValue("thread")
	if _, ok := f.messages[threadID]; !ok {
		writeFakeError(w, http.StatusNotFound, "not_found", "no such thread")
		return
	}
	run := &fakeRun{
		ID:            "run_" + uuid.NewString(),
		ThreadID:      threadID,
		AgentID:       readAgentID(r),
		finalStatus:   f.terminalStatus(),
		pollsToFinish: f.PendingPolls,
	}
	f.runs[run.ID] = run
	if run.pollsToFinish <= 0 {
		f.finishRun(run)
	}
	writeFakeJSON(w, run.view("in_progress"))
}

func (f *FakePlatform) handleGetRun(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[r.PathValue("run")]
	if !ok {
		writeFakeError(w, http.StatusNotFound, "not_found", "no such run")
		return
	}
	if !run.done {
		run.pollsToFinish--
		if run.pollsToFinish <= 0 {
			f.finishRun(run)
		}
	}
	writeFakeJSON(w, run.view("in_progress"))
}

// fakeRun tracks one run's progression toward its terminal status.
type fakeRun struct {
	ID       string
	ThreadID string
	AgentID  string

	finalStatus   string
	pollsToFinish int
	done          bool
}

// view renders the run's wire representation, reporting pending while
// the run is not done.
func (r *fakeRun) view(pendingStatus string) map[string]any {
	status := pendingStatus
	if r.done {
		status = r.finalStatus
	}
	return map[string]any{
		"id":           r.ID,
		"thread_id":    r.ThreadID,
		"assistant_id": r.AgentID,
		"status":       status,
	}
}

// terminalStatus returns the configured terminal run status.
func (f *FakePlatform) terminalStatus() string {
	if f.RunStatus == "" {
		return "completed"
	}
	return f.RunStatus
}

// finishRun moves a run to its terminal status, appending the
// configured assistant reply on completion.
func (f *FakePlatform) finishRun(run *fakeRun) {
	run.done = true
	if run.finalStatus == "completed" && f.ReplyContent != nil {
		f.messages[run.ThreadID] = append(f.messages[run.ThreadID], fakeMessage{
			ID:      "msg_" + uuid.NewString(),
			Role:    "assistant",
			Content: f.ReplyContent,
		})
	}
}

// readAgentID pulls the agent id out of a create-run body without
// consuming decode errors: a missing id is simply empty.
func readAgentID(r *http.Request) string {
	var body struct {
		AgentID string `json:"assistant_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.AgentID
}

func writeFakeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFakeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"code":%q,"message":%q}}`, code, message)
}
