package cloud

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
)

// DefaultMessageLimit is the number of messages retrieved when no explicit
// limit is requested.
const DefaultMessageLimit = 10

// inboxSelect is the field set requested for message listings. Restricting
// $select keeps responses small while still carrying everything the display
// and organize paths need.
var inboxSelect = []string{
	"id", "subject", "from", "toRecipients", "receivedDateTime",
	"isRead", "bodyPreview", "body", "hasAttachments",
}

// unreadFilter selects unread messages only.
const unreadFilter = "isRead eq false"

// ListOptions controls inbox message listings.
type ListOptions struct {
	// UnreadOnly restricts the listing to unread messages
	UnreadOnly bool

	// Top is the maximum number of messages to retrieve.
	// Values <= 0 fall back to DefaultMessageLimit.
	Top int32
}

// InboxMessages lists messages from the user's inbox folder, newest first.
// An empty inbox yields an empty slice, not an error.
func (m *Mailbox) InboxMessages(ctx context.Context, opts ListOptions) ([]models.Messageable, error) {
	top := opts.Top
	if top <= 0 {
		top = DefaultMessageLimit
	}

	query := &users.ItemMailFoldersItemMessagesRequestBuilderGetQueryParameters{
		Top:     ptrInt32(top),
		Select:  inboxSelect,
		Orderby: []string{"receivedDateTime desc"},
	}
	if opts.UnreadOnly {
		filter := unreadFilter
		query.Filter = &filter
	}

	resp, err := m.graph.Me().
		MailFolders().
		ByMailFolderId("inbox").
		Messages().
		Get(ctx, &users.ItemMailFoldersItemMessagesRequestBuilderGetRequestConfiguration{
			QueryParameters: query,
		})
	if err != nil {
		return nil, graphError("fetching inbox messages", err)
	}

	messages := resp.GetValue()
	if messages == nil {
		messages = []models.Messageable{}
	}
	m.log.WithFields(map[string]interface{}{
		"count":       len(messages),
		"unread_only": opts.UnreadOnly,
	}).Debug("Retrieved inbox messages")

	return messages, nil
}

// Message fetches a single message by ID with its full body.
func (m *Mailbox) Message(ctx context.Context, messageID string) (models.Messageable, error) {
	message, err := m.graph.Me().Messages().ByMessageId(messageID).Get(ctx, nil)
	if err != nil {
		return nil, graphError("fetching message", err)
	}
	return message, nil
}

// MarkRead marks a message as read by patching its isRead flag.
func (m *Mailbox) MarkRead(ctx context.Context, messageID string) error {
	read := true
	patch := models.NewMessage()
	patch.SetIsRead(&read)

	if _, err := m.graph.Me().Messages().ByMessageId(messageID).Patch(ctx, patch, nil); err != nil {
		return graphError("marking message as read", err)
	}
	return nil
}

// MoveMessage moves a message into the folder with the given ID.
func (m *Mailbox) MoveMessage(ctx context.Context, messageID, destinationFolderID string) error {
	body := users.NewItemMessagesItemMovePostRequestBody()
	body.SetDestinationId(&destinationFolderID)

	if _, err := m.graph.Me().Messages().ByMessageId(messageID).Move().Post(ctx, body, nil); err != nil {
		return graphError("moving message", err)
	}
	return nil
}
