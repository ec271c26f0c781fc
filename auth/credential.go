package auth

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"graphmail.evalgo.org/common"
)

// Scopes are the Microsoft Graph delegated permissions requested during
// device-code authentication. offline_access is added implicitly by the
// identity platform, which is what makes silent refresh possible.
var Scopes = []string{
	"https://graph.microsoft.com/Mail.Read",
	"https://graph.microsoft.com/Mail.ReadWrite",
	"https://graph.microsoft.com/User.Read",
}

// CachedCredential wraps another azcore.TokenCredential with a file-backed
// token cache. Tokens are served from the cache while they remain valid;
// only on a miss is the inner credential asked for a new token, which for a
// device-code credential means prompting the user.
//
// CachedCredential implements azcore.TokenCredential and can be passed
// directly to msgraphsdk.NewGraphServiceClientWithCredentials.
type CachedCredential struct {
	inner azcore.TokenCredential
	cache *TokenCache
	log   *common.ContextLogger
}

// NewCachedCredential wraps an existing credential with the given token cache.
func NewCachedCredential(inner azcore.TokenCredential, cache *TokenCache) *CachedCredential {
	return &CachedCredential{
		inner: inner,
		cache: cache,
		log:   common.ServiceLogger("auth"),
	}
}

// NewDeviceCodeCredential builds a device-code credential for the given
// tenant and client, wrapped with the token cache. The device-code prompt
// (the "go to https://microsoft.com/devicelogin and enter code ..." message)
// is printed to stdout so it is visible even with JSON logging enabled.
func NewDeviceCodeCredential(tenantID, clientID string, cache *TokenCache) (*CachedCredential, error) {
	if tenantID == "" {
		return nil, ErrMissingTenantID
	}
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	device, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
		TenantID: tenantID,
		ClientID: clientID,
		UserPrompt: func(ctx context.Context, message azidentity.DeviceCodeMessage) error {
			fmt.Println(message.Message)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device code credential: %w", err)
	}

	return NewCachedCredential(device, cache), nil
}

// GetToken implements azcore.TokenCredential. It returns the cached token
// when one is still valid, otherwise delegates to the inner credential and
// persists the result. A cache write failure is logged but does not fail the
// request, since the token itself is usable.
func (c *CachedCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	if token, ok := c.cache.Load(); ok {
		c.log.Debug("Using cached access token")
		return token, nil
	}

	c.log.Info("No valid cached token, authenticating")
	token, err := c.inner.GetToken(ctx, opts)
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("authentication failed: %w", err)
	}

	if err := c.cache.Save(token); err != nil {
		c.log.WithError(err).Warn("Failed to persist token cache")
	}
	return token, nil
}
