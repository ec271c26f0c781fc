package cloud

import (
	"context"
	"errors"
	"strings"
)

var errFolderWithoutID = errors.New("folder has no ID")

// OrganizeResult summarizes a single organize run.
type OrganizeResult struct {
	Term     string   // Subject search term
	Folder   string   // Target folder display name
	FolderID string   // Target folder ID
	Listed   int      // Inbox messages examined
	Matched  int      // Messages whose subject matched the term
	Moved    int      // Messages actually moved
	MovedIDs []string // IDs of the moved messages
}

// SubjectMatches reports whether a message subject contains the search term,
// case-insensitively. An empty term never matches.
func SubjectMatches(subject, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(subject), strings.ToLower(term))
}

// OrganizeBySubject finds inbox messages whose subject contains term and
// moves them into the named folder, creating the folder when missing.
//
// The optional skip predicate lets callers exclude messages by ID (the
// polling server passes its seen-message store here so restarts do not
// recount earlier moves). A failed move is logged and skipped; the run
// continues with the remaining messages.
func (m *Mailbox) OrganizeBySubject(ctx context.Context, term, targetFolder string, skip func(messageID string) bool) (OrganizeResult, error) {
	result := OrganizeResult{Term: term, Folder: targetFolder}
	log := m.log.WithFields(map[string]interface{}{
		"term":   term,
		"folder": targetFolder,
	})

	folder, err := m.EnsureFolder(ctx, targetFolder)
	if err != nil {
		return result, err
	}
	if folder.GetId() == nil {
		return result, graphError("resolving target folder", errFolderWithoutID)
	}
	result.FolderID = *folder.GetId()

	messages, err := m.InboxMessages(ctx, ListOptions{Top: DefaultMessageLimit})
	if err != nil {
		return result, err
	}
	result.Listed = len(messages)

	for _, message := range messages {
		id := message.GetId()
		subject := message.GetSubject()
		if id == nil || subject == nil {
			continue
		}
		if !SubjectMatches(*subject, term) {
			continue
		}
		result.Matched++

		if skip != nil && skip(*id) {
			log.WithField("message_id", *id).Debug("Skipping already organized message")
			continue
		}

		// Pace bulk moves to stay clear of Graph throttling
		if err := m.limiter.Wait(ctx); err != nil {
			return result, err
		}

		if err := m.MoveMessage(ctx, *id, result.FolderID); err != nil {
			log.WithError(err).WithField("subject", *subject).Error("Failed to move message")
			continue
		}

		log.WithField("subject", *subject).Info("Moved message")
		result.Moved++
		result.MovedIDs = append(result.MovedIDs, *id)
	}

	log.WithFields(map[string]interface{}{
		"listed":  result.Listed,
		"matched": result.Matched,
		"moved":   result.Moved,
	}).Info("Organize run finished")

	return result, nil
}
