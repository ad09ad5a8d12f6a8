package foundry

import (
	"encoding/json"
	"testing"
)

func TestContentDecodesNestedTextValues(t *testing.T) {
	payload := `[{"type":"text","text":{"value":"Hello","annotations":[]}},{"type":"text","text":{"value":"World"}}]`
	var content MessageContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(content))
	}
	if content[0].Kind != PartText || content[0].Text != "Hello" {
		t.Fatalf("unexpected first part: %+v", content[0])
	}
	if content[1].Kind != PartText || content[1].Text != "World" {
		t.Fatalf("unexpected second part: %+v", content[1])
	}
}

func TestContentDecodesBareStringText(t *testing.T) {
	payload := `[{"type":"text","text":"plain value"}]`
	var content MessageContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 1 || content[0].Kind != PartText || content[0].Text != "plain value" {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestContentDecodesBareStringPayload(t *testing.T) {
	var content MessageContent
	if err := json.Unmarshal([]byte(`"just a string"`), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 1 || content[0].Kind != PartText || content[0].Text != "just a string" {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestContentDecodesImageFileParts(t *testing.T) {
	payload := `[{"type":"image_file","image_file":{"file_id":"file_123"}}]`
	var content MessageContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 1 || content[0].Kind != PartImageFile || content[0].FileID != "file_123" {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestContentPreservesUnknownPartsWithoutPayload(t *testing.T) {
	payload := `[{"type":"refusal","refusal":"no"},{"type":"text","text":{"value":"kept"}}]`
	var content MessageContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(content))
	}
	if content[0].Kind != PartUnknown {
		t.Fatalf("expected unknown first part, got %+v", content[0])
	}
	if content[1].Text != "kept" {
		t.Fatalf("expected text part preserved, got %+v", content[1])
	}
}

func TestContentDecodeWithinMessage(t *testing.T) {
	payload := `{"id":"msg_1","role":"assistant","content":[{"type":"text","text":{"value":"doc"}}]}`
	var message Message
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if message.Role != "assistant" || len(message.Content) != 1 || message.Content[0].Text != "doc" {
		t.Fatalf("unexpected message: %+v", message)
	}
}
