package foundry_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"architectai/internal/foundry"
	"architectai/internal/testutil"
)

func newTestClient(t *testing.T, endpoint string) *foundry.Client {
	t.Helper()
	client, err := foundry.NewClient(endpoint, testutil.StaticTokenCredential{}, &foundry.ClientOptions{
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := foundry.NewClient("", testutil.StaticTokenCredential{}, nil); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
	if _, err := foundry.NewClient("https://example.test", nil, nil); err == nil {
		t.Fatalf("expected error for nil credential")
	}
}

func TestCreateAndListAgents(t *testing.T) {
	platform := testutil.StartFakePlatform(t)
	client := newTestClient(t, platform.URL())
	ctx := testutil.Context(t, 0)

	created, err := client.CreateAgent(ctx, foundry.CreateAgentRequest{
		Model:        "gpt-4o",
		Name:         "design-agent",
		Instructions: "be helpful",
		Tools:        []foundry.Tool{{Type: "file_search"}},
	})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if created.ID == "" || created.Name != "design-agent" {
		t.Fatalf("unexpected agent: %+v", created)
	}

	agents, err := client.ListAgents(ctx)
	if err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if len(agents) != 1 || agents[0].ID != created.ID {
		t.Fatalf("unexpected listing: %+v", agents)
	}
}

func TestListAgentsFollowsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		after := r.URL.Query().Get("after")
		w.Header().Set("Content-Type", "application/json")
		if after == "" {
			fmt.Fprint(w, `{"data":[{"id":"asst_1","name":"a"}],"has_more":true,"last_id":"asst_1"}`)
			return
		}
		if after != "asst_1" {
			t.Errorf("unexpected after cursor %q", after)
		}
		fmt.Fprint(w, `{"data":[{"id":"asst_2","name":"b"}],"has_more":false}`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	agents, err := client.ListAgents(testutil.Context(t, 0))
	if err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if len(agents) != 2 || agents[0].ID != "asst_1" || agents[1].ID != "asst_2" {
		t.Fatalf("unexpected agents: %+v", agents)
	}
}

func TestThreadMessageRoundTrip(t *testing.T) {
	platform := testutil.StartFakePlatform(t)
	client := newTestClient(t, platform.URL())
	ctx := testutil.Context(t, 0)

	thread, err := client.CreateThread(ctx)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if thread.ID == "" {
		t.Fatalf("empty thread id")
	}

	if _, err := client.CreateMessage(ctx, thread.ID, "user", "design a thing"); err != nil {
		t.Fatalf("create message: %v", err)
	}

	messages, err := client.ListMessages(ctx, thread.ID, foundry.OrderDescending)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
	if len(messages[0].Content) != 1 || messages[0].Content[0].Text != "design a thing" {
		t.Fatalf("unexpected content: %+v", messages[0].Content)
	}
}

func TestCreateAndProcessRunPollsToCompletion(t *testing.T) {
	platform := testutil.StartFakePlatform(t)
	platform.PendingPolls = 3
	platform.ReplyWithText("done")
	client := newTestClient(t, platform.URL())
	ctx := testutil.Context(t, 0)

	thread, err := client.CreateThread(ctx)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	run, err := client.CreateAndProcessRun(ctx, thread.ID, "asst_x")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if run.Status != "completed" {
		t.Fatalf("unexpected status %q", run.Status)
	}
	if !run.Terminal() {
		t.Fatalf("completed run not terminal")
	}
}

func TestCreateAndProcessRunHonorsContext(t *testing.T) {
	platform := testutil.StartFakePlatform(t)
	platform.PendingPolls = 1 << 30
	client := newTestClient(t, platform.URL())
	ctx := testutil.Context(t, 50*time.Millisecond)

	thread, err := client.CreateThread(ctx)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if _, err := client.CreateAndProcessRun(ctx, thread.ID, "asst_x"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPlatformErrorDecoding(t *testing.T) {
	platform := testutil.StartFakePlatform(t)
	platform.FailList = true
	client := newTestClient(t, platform.URL())

	_, err := client.ListAgents(testutil.Context(t, 0))
	if err == nil {
		t.Fatalf("expected listing error")
	}
	var platformErr *foundry.PlatformError
	if !errors.As(err, &platformErr) {
		t.Fatalf("expected PlatformError, got %T: %v", err, err)
	}
	if platformErr.StatusCode != http.StatusInternalServerError || platformErr.Code != "server_error" {
		t.Fatalf("unexpected error: %+v", platformErr)
	}
	if !strings.Contains(platformErr.Error(), "listing unavailable") {
		t.Fatalf("message missing from %q", platformErr.Error())
	}
}

func TestPlatformErrorWithUnstructuredBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream unavailable")
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.ListAgents(testutil.Context(t, 0))
	var platformErr *foundry.PlatformError
	if !errors.As(err, &platformErr) {
		t.Fatalf("expected PlatformError, got %v", err)
	}
	if platformErr.StatusCode != http.StatusBadGateway || platformErr.Message != "upstream unavailable" {
		t.Fatalf("unexpected error: %+v", platformErr)
	}
}

func TestRequestsCarryBearerTokenAndAPIVersion(t *testing.T) {
	var gotAuth, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.URL.Query().Get("api-version")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	t.Cleanup(server.Close)

	client, err := foundry.NewClient(server.URL, testutil.StaticTokenCredential{Value: "secret-token"}, &foundry.ClientOptions{
		APIVersion: "2025-05-01",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListAgents(testutil.Context(t, 0)); err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotVersion != "2025-05-01" {
		t.Fatalf("unexpected api version %q", gotVersion)
	}
}
