// Package cloud provides the Microsoft Graph mailbox client for graphmail.
// It wraps the Microsoft Graph SDK for Exchange Online mail operations:
// listing and filtering inbox messages, marking messages read, and creating
// folders and moving messages into them.
//
// The package is deliberately thin. HTTP construction, serialization,
// pagination plumbing, retry and backoff, and throttling responses are all
// the responsibility of msgraph-sdk-go; this package maps typed arguments
// onto SDK call signatures and normalizes the SDK's pointer-heavy model
// types at the boundary.
//
// Authentication:
//
//	The client accepts any azcore.TokenCredential. graphmail passes the
//	device-code credential from the auth package, so all operations run as
//	the signed-in user (the SDK's Me() request builders) with delegated
//	Mail.Read / Mail.ReadWrite / User.Read permissions.
//
// Rate Limiting:
//
//	Microsoft Graph throttles aggressive clients. Bulk organize runs pace
//	their move requests through a token-bucket limiter so a large inbox
//	cannot trigger throttling in the first place; handling 429 responses
//	remains the SDK's job.
package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"golang.org/x/time/rate"

	"graphmail.evalgo.org/common"
)

// moveRate bounds how fast organize runs issue message-move requests.
// Well under Graph's mailbox write limits.
const moveRate = rate.Limit(4)

// ptrInt32 creates a pointer to an int32 value for use with Microsoft Graph
// API query parameters, where optional values are represented as pointers.
func ptrInt32(i int32) *int32 {
	return &i
}

// Mailbox is a client for the signed-in user's Exchange Online mailbox.
// All methods issue a single Graph call (or one logical paginated sequence)
// and return SDK model types.
type Mailbox struct {
	graph   *msgraphsdk.GraphServiceClient
	limiter *rate.Limiter
	log     *common.ContextLogger
}

// NewMailbox creates a mailbox client authenticated with the given credential.
//
// Parameters:
//   - cred: Token credential, typically an auth.CachedCredential wrapping a
//     device-code credential
//   - scopes: Graph delegated scopes, typically auth.Scopes
//
// Returns:
//   - *Mailbox: Configured mailbox client
//   - error: If the underlying Graph client cannot be constructed
func NewMailbox(cred azcore.TokenCredential, scopes []string) (*Mailbox, error) {
	graph, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	return &Mailbox{
		graph:   graph,
		limiter: rate.NewLimiter(moveRate, 1),
		log:     common.ServiceLogger("cloud"),
	}, nil
}

// Me fetches the signed-in user's profile. Used as the authentication probe:
// the first call triggers the device-code prompt when no cached token exists.
func (m *Mailbox) Me(ctx context.Context) (models.Userable, error) {
	user, err := m.graph.Me().Get(ctx, nil)
	if err != nil {
		return nil, graphError("fetching user profile", err)
	}
	return user, nil
}

// graphError wraps a Graph SDK error for an operation, surfacing the OData
// error code and message when the SDK returned one.
func graphError(op string, err error) error {
	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		if detail := odataErr.GetErrorEscaped(); detail != nil &&
			detail.GetCode() != nil && detail.GetMessage() != nil {
			return fmt.Errorf("error %s: %s (%s): %w", op, *detail.GetMessage(), *detail.GetCode(), err)
		}
	}
	return fmt.Errorf("error %s: %w", op, err)
}
