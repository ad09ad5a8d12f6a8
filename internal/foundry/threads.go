package foundry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Thread is a single conversation context. Threads are created fresh
// per request and never reused; their lifetime beyond the request
// belongs to the platform.
type Thread struct {
	ID string `json:"id"`
}

// Message is one entry in a thread's history. Content is normalized
// at decode time; see MessageContent.
type Message struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageOrder selects the sort direction for ListMessages.
type MessageOrder string

const (
	OrderAscending  MessageOrder = "asc"
	OrderDescending MessageOrder = "desc"
)

// messageList matches the platform's paginated list envelope.
type messageList struct {
	Data    []Message `json:"data"`
	HasMore bool      `json:"has_more"`
	LastID  string    `json:"last_id"`
}

// CreateThread opens a new empty conversation thread.
func (c *Client) CreateThread(ctx context.Context) (Thread, error) {
	var thread Thread
	if err := c.doJSON(ctx, http.MethodPost, "/threads", nil, struct{}{}, &thread); err != nil {
		return Thread{}, err
	}
	return thread, nil
}

// CreateMessage appends a message with the given role and text content
// to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) (Message, error) {
	body := struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: role, Content: content}
	var message Message
	path := fmt.Sprintf("/threads/%s/messages", url.PathEscape(threadID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &message); err != nil {
		return Message{}, err
	}
	return message, nil
}

// ListMessages returns a thread's messages in the requested order,
// following pagination to the end.
func (c *Client) ListMessages(ctx context.Context, threadID string, order MessageOrder) ([]Message, error) {
	var messages []Message
	after := ""
	path := fmt.Sprintf("/threads/%s/messages", url.PathEscape(threadID))
	for {
		query := listQuery(after)
		if order != "" {
			query.Set("order", string(order))
		}
		var page messageList
		if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		messages = append(messages, page.Data...)
		if !page.HasMore || page.LastID == "" {
			return messages, nil
		}
		after = page.LastID
	}
}

// listQuery builds pagination query values for list endpoints.
func listQuery(after string) url.Values {
	query := url.Values{}
	if after != "" {
		query.Set("after", after)
	}
	return query
}
