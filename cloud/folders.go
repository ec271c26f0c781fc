package cloud

import (
	"context"
	"fmt"
	"strings"

	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
)

// Folders lists all of the user's mail folders, following server-side
// pagination via the Graph page iterator.
func (m *Mailbox) Folders(ctx context.Context) ([]models.MailFolderable, error) {
	resp, err := m.graph.Me().MailFolders().Get(ctx, nil)
	if err != nil {
		return nil, graphError("fetching mail folders", err)
	}

	iterator, err := msgraphcore.NewPageIterator[models.MailFolderable](
		resp,
		m.graph.GetAdapter(),
		models.CreateMailFolderCollectionResponseFromDiscriminatorValue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder iterator: %w", err)
	}

	var folders []models.MailFolderable
	err = iterator.Iterate(ctx, func(folder models.MailFolderable) bool {
		folders = append(folders, folder)
		return true
	})
	if err != nil {
		return nil, graphError("iterating mail folders", err)
	}

	return folders, nil
}

// FolderNamed finds a folder by display name in a folder listing.
// The comparison is case-insensitive. Returns nil when no folder matches.
func FolderNamed(folders []models.MailFolderable, name string) models.MailFolderable {
	for _, folder := range folders {
		displayName := folder.GetDisplayName()
		if displayName != nil && strings.EqualFold(*displayName, name) {
			return folder
		}
	}
	return nil
}

// FolderByName looks up a mail folder by display name, case-insensitively.
// Returns nil (and no error) when the folder does not exist.
func (m *Mailbox) FolderByName(ctx context.Context, name string) (models.MailFolderable, error) {
	folders, err := m.Folders(ctx)
	if err != nil {
		return nil, err
	}
	return FolderNamed(folders, name), nil
}

// CreateFolder creates a new top-level mail folder with the given display name.
func (m *Mailbox) CreateFolder(ctx context.Context, name string) (models.MailFolderable, error) {
	folder := models.NewMailFolder()
	folder.SetDisplayName(&name)

	created, err := m.graph.Me().MailFolders().Post(ctx, folder, nil)
	if err != nil {
		return nil, graphError("creating mail folder", err)
	}

	m.log.WithField("folder", name).Info("Created mail folder")
	return created, nil
}

// EnsureFolder returns the folder with the given display name, creating it
// when it does not exist yet. This is a single existence check followed by an
// optional create, not a synchronization primitive: two concurrent callers
// can still both create the folder.
func (m *Mailbox) EnsureFolder(ctx context.Context, name string) (models.MailFolderable, error) {
	folder, err := m.FolderByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if folder != nil {
		m.log.WithField("folder", name).Debug("Folder already exists")
		return folder, nil
	}

	return m.CreateFolder(ctx, name)
}
