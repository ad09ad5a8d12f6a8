package foundry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// defaultAPIVersion is the Agents API version this client speaks.
const defaultAPIVersion = "2025-05-01"

// tokenScope is the OAuth scope for the Foundry Agents API. The API
// accepts token credentials only; API keys are rejected upstream of
// this package.
const tokenScope = "https://ai.azure.com/.default"

// tokenRefreshMargin is how long before expiry a cached token is
// considered stale.
const tokenRefreshMargin = 2 * time.Minute

// HTTPDoer abstracts the HTTP client used for platform calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a REST client for the Foundry Agents API. All calls take a
// context; cancellation and deadlines propagate to the underlying
// HTTP requests, including the run polling loop.
type Client struct {
	endpoint     string
	apiVersion   string
	credential   azcore.TokenCredential
	httpClient   HTTPDoer
	pollInterval time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// ClientOptions adjusts optional client behavior.
type ClientOptions struct {
	// APIVersion overrides the default Agents API version.
	APIVersion string

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient HTTPDoer

	// PollInterval paces run status polling in CreateAndProcessRun.
	// Defaults to one second.
	PollInterval time.Duration
}

// NewClient constructs a client for the given project endpoint and
// token credential.
func NewClient(endpoint string, credential azcore.TokenCredential, opts *ClientOptions) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if credential == nil {
		return nil, fmt.Errorf("credential is required")
	}
	client := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: defaultAPIVersion,
		credential: credential,
		httpClient: http.DefaultClient,
	}
	if opts != nil {
		if strings.TrimSpace(opts.APIVersion) != "" {
			client.apiVersion = opts.APIVersion
		}
		if opts.HTTPClient != nil {
			client.httpClient = opts.HTTPClient
		}
		if opts.PollInterval > 0 {
			client.pollInterval = opts.PollInterval
		}
	}
	return client, nil
}

// bearerToken returns a cached access token, minting a new one when the
// cached token is missing or close to expiry.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Until(c.tokenExpiry) > tokenRefreshMargin {
		return c.token, nil
	}
	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{tokenScope},
	})
	if err != nil {
		return "", fmt.Errorf("acquire platform token: %w", err)
	}
	c.token = token.Token
	c.tokenExpiry = token.ExpiresOn
	return c.token, nil
}

// requestURL builds an API URL for the given path and query values.
func (c *Client) requestURL(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	return c.endpoint + path + "?" + query.Encode()
}

// doJSON issues a request with an optional JSON body and decodes the
// JSON response into out. Non-2xx responses become a *PlatformError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, query), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readPlatformError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
