package testutil

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// StaticTokenCredential is a TokenCredential that always returns the
// same token. For tests against fake platform servers.
type StaticTokenCredential struct {
	Value string
}

func (c StaticTokenCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	token := c.Value
	if token == "" {
		token = "test-token"
	}
	return azcore.AccessToken{
		Token:     token,
		ExpiresOn: time.Now().Add(time.Hour),
	}, nil
}
