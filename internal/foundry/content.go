package foundry

import (
	"encoding/json"
)

// PartKind identifies the canonical content part variants.
type PartKind int

const (
	// PartUnknown marks a part whose wire shape was not recognized.
	// Unknown parts are preserved in order but carry no payload.
	PartUnknown PartKind = iota
	PartText
	PartImageFile
)

// ContentPart is the canonical form of one unit of message content.
// The wire format is heterogeneous; parsing normalizes every shape to
// this one representation so downstream code never branches on shape.
type ContentPart struct {
	Kind   PartKind
	Text   string
	FileID string
}

// MessageContent is the ordered content of a message, normalized at
// the platform boundary. It decodes from either a bare JSON string or
// an array of typed content items.
type MessageContent []ContentPart

// wireContentItem matches one element of an array-shaped content
// payload. The "text" field itself varies: either a nested object with
// a "value" key or a bare string.
type wireContentItem struct {
	Type      string          `json:"type"`
	Text      json.RawMessage `json:"text"`
	ImageFile struct {
		FileID string `json:"file_id"`
	} `json:"image_file"`
}

func (mc *MessageContent) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*mc = MessageContent{{Kind: PartText, Text: plain}}
		return nil
	}

	var items []wireContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	parts := make(MessageContent, 0, len(items))
	for _, item := range items {
		parts = append(parts, normalizeItem(item))
	}
	*mc = parts
	return nil
}

// normalizeItem maps one wire item to its canonical part.
func normalizeItem(item wireContentItem) ContentPart {
	switch item.Type {
	case "text":
		if value, ok := decodeTextPayload(item.Text); ok {
			return ContentPart{Kind: PartText, Text: value}
		}
		return ContentPart{Kind: PartUnknown}
	case "image_file":
		return ContentPart{Kind: PartImageFile, FileID: item.ImageFile.FileID}
	default:
		return ContentPart{Kind: PartUnknown}
	}
}

// decodeTextPayload extracts the text value from either supported
// shape: {"value": "..."} or a bare string.
func decodeTextPayload(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var nested struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Value, true
	}
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, true
	}
	return "", false
}
