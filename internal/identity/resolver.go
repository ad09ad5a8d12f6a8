package identity

import (
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Purpose selects which platform surface a credential is resolved for.
type Purpose string

const (
	// PurposeDirectAPI is the model inference surface, which accepts
	// both API keys and token credentials.
	PurposeDirectAPI Purpose = "direct-api"

	// PurposeTokenPlatform is the Agents platform surface, which
	// accepts token credentials only.
	PurposeTokenPlatform Purpose = "token-only-platform"
)

// Settings carries the environment-supplied inputs to resolution.
type Settings struct {
	// APIKey is the optional platform API key. Unusable for
	// PurposeTokenPlatform; its presence there only produces a
	// warning before identity resolution proceeds.
	APIKey string

	// ClientID is the optional user-assigned managed identity
	// client id.
	ClientID string
}

// Credential is the resolved authentication capability. Exactly one
// field is set.
type Credential struct {
	// Token is set on every identity-based resolution.
	Token azcore.TokenCredential

	// Key is set only for PurposeDirectAPI when an API key is
	// configured.
	Key *azcore.KeyCredential
}

// Resolver resolves credentials for platform calls. Credentials are
// built fresh per call; the resolver holds no credential state.
//
// The constructor funcs exist so tests can exercise the fallback chain
// without platform access.
type Resolver struct {
	settings Settings
	logger   *slog.Logger

	newManagedIdentity func(clientID string) (azcore.TokenCredential, error)
	newAmbientWithID   func(clientID string) (azcore.TokenCredential, error)
	newAmbient         func() (azcore.TokenCredential, error)
}

// NewResolver builds a resolver over the given settings.
func NewResolver(settings Settings, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		settings:           settings,
		logger:             logger,
		newManagedIdentity: newManagedIdentityCredential,
		newAmbientWithID:   newAmbientCredentialWithID,
		newAmbient:         newAmbientCredential,
	}
}

// Resolve returns a credential for the given purpose.
//
// For PurposeTokenPlatform a configured API key is never returned: the
// platform's agent surface rejects key auth, so the key's presence is
// logged and identity resolution proceeds. For PurposeDirectAPI the
// API key wins when present.
func (r *Resolver) Resolve(purpose Purpose) (Credential, error) {
	switch purpose {
	case PurposeDirectAPI:
		if r.settings.APIKey != "" {
			r.logger.Info("using API key authentication",
				"purpose", string(purpose),
				"key_prefix", secretPrefix(r.settings.APIKey))
			key := azcore.NewKeyCredential(r.settings.APIKey)
			return Credential{Key: key}, nil
		}
	case PurposeTokenPlatform:
		if r.settings.APIKey != "" {
			r.logger.Warn("API key is not usable for the agents platform, falling back to identity authentication",
				"purpose", string(purpose),
				"key_prefix", secretPrefix(r.settings.APIKey))
		}
	default:
		return Credential{}, fmt.Errorf("unknown credential purpose %q", purpose)
	}

	token, err := r.resolveToken()
	if err != nil {
		return Credential{}, err
	}
	return Credential{Token: token}, nil
}

// resolveToken walks the identity fallback chain: user-assigned
// managed identity, then the ambient chain parameterized with the
// client id, then the bare ambient chain. Only the final step's
// failure propagates.
func (r *Resolver) resolveToken() (azcore.TokenCredential, error) {
	clientID := r.settings.ClientID
	if clientID != "" {
		credential, err := r.newManagedIdentity(clientID)
		if err == nil {
			r.logger.Info("using managed identity credential",
				"client_id_prefix", secretPrefix(clientID))
			return credential, nil
		}
		r.logger.Warn("managed identity credential failed, trying ambient chain with client id",
			"error", err)

		credential, err = r.newAmbientWithID(clientID)
		if err == nil {
			r.logger.Info("using ambient credential chain with client id",
				"client_id_prefix", secretPrefix(clientID))
			return credential, nil
		}
		r.logger.Warn("ambient credential chain with client id failed, trying bare ambient chain",
			"error", err)
	}

	credential, err := r.newAmbient()
	if err != nil {
		return nil, fmt.Errorf("resolve ambient credential: %w", err)
	}
	r.logger.Info("using ambient credential chain")
	return credential, nil
}

// newManagedIdentityCredential builds a credential bound to a
// user-assigned managed identity.
func newManagedIdentityCredential(clientID string) (azcore.TokenCredential, error) {
	return azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
		ID: azidentity.ClientID(clientID),
	})
}

// newAmbientCredentialWithID builds the ambient chain parameterized
// with the managed identity client id: workload identity first (for
// federated container environments), then managed identity.
func newAmbientCredentialWithID(clientID string) (azcore.TokenCredential, error) {
	var sources []azcore.TokenCredential
	if workload, err := azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
		ClientID: clientID,
	}); err == nil {
		sources = append(sources, workload)
	}
	managed, err := azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
		ID: azidentity.ClientID(clientID),
	})
	if err == nil {
		sources = append(sources, managed)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no ambient credential source available for client id: %w", err)
	}
	return azidentity.NewChainedTokenCredential(sources, nil)
}

// newAmbientCredential builds the unparameterized ambient chain.
func newAmbientCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}

// secretPrefix returns a short non-identifying prefix of a secret for
// log lines. The prefix never exceeds half the secret, so short values
// are not echoed whole either.
func secretPrefix(value string) string {
	const n = 8
	keep := len(value) / 2
	if keep > n {
		keep = n
	}
	return value[:keep] + "..."
}
