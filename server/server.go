// Package server implements the continuous mailbox poller for graphmail.
// The poller runs one processing cycle at a time: organize matching inbox
// messages into the target folder, then report the unread count. Between
// cycles it sleeps for the configured check interval, falling back to a
// shorter retry interval after a failed cycle.
//
// The loop issues one Graph call at a time and awaits its completion before
// proceeding. There is no parallelism and no shared mutable state beyond the
// mutex-guarded status snapshot served by the status endpoint.
//
// Shutdown is cooperative: callers cancel the context passed to Run
// (typically wired to SIGINT/SIGTERM via signal.NotifyContext), which
// interrupts both in-flight Graph calls and inter-cycle sleeps.
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"graphmail.evalgo.org/cloud"
	"graphmail.evalgo.org/common"
	"graphmail.evalgo.org/state"
)

// unreadReportLimit caps the unread listing fetched at the end of each cycle.
const unreadReportLimit = 50

// Mailbox is the subset of the cloud client the poller depends on.
// Declared here so tests can substitute a mock.
type Mailbox interface {
	OrganizeBySubject(ctx context.Context, term, targetFolder string, skip func(messageID string) bool) (cloud.OrganizeResult, error)
	InboxMessages(ctx context.Context, opts cloud.ListOptions) ([]models.Messageable, error)
}

// Config contains the poller settings.
type Config struct {
	// Term is the subject search term for organize runs
	Term string

	// Folder is the target folder for matching messages
	Folder string

	// CheckInterval is the pause between successful cycles
	CheckInterval time.Duration

	// ErrorRetry is the pause after a failed cycle
	ErrorRetry time.Duration

	// StatusAddr is the status endpoint listen address; empty disables it
	StatusAddr string
}

// Status is a snapshot of the poller's progress, served by the status
// endpoint and inspectable in tests.
type Status struct {
	Running       bool      `json:"running"`
	Cycles        int       `json:"cycles"`
	Failures      int       `json:"failures"`
	MessagesMoved int       `json:"messages_moved"`
	UnreadCount   int       `json:"unread_count"`
	LastCycle     time.Time `json:"last_cycle"`
	LastError     string    `json:"last_error,omitempty"`
}

// Server is the continuous mailbox poller.
type Server struct {
	mailbox Mailbox
	store   *state.Store
	cfg     Config
	log     *common.ContextLogger

	mu     sync.Mutex
	status Status
}

// New creates a poller. The state store may be nil, in which case moved
// messages are not tracked across restarts.
func New(mailbox Mailbox, store *state.Store, cfg Config) *Server {
	return &Server{
		mailbox: mailbox,
		store:   store,
		cfg:     cfg,
		log:     common.ServiceLogger("mail-poller"),
	}
}

// Status returns a snapshot of the poller's progress.
func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run executes processing cycles until the context is canceled. A canceled
// context is a clean shutdown, not an error.
func (s *Server) Run(ctx context.Context) error {
	s.setRunning(true)
	defer s.setRunning(false)

	if s.cfg.StatusAddr != "" {
		statusServer := s.startStatus()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := statusServer.Shutdown(shutdownCtx); err != nil {
				s.log.WithError(err).Warn("Status endpoint shutdown failed")
			}
		}()
	}

	s.log.WithFields(map[string]interface{}{
		"check_interval": s.cfg.CheckInterval.String(),
		"error_retry":    s.cfg.ErrorRetry.String(),
	}).Info("Mail poller started")

	for {
		wait := s.cfg.CheckInterval

		if err := s.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.log.Info("Mail poller stopped")
				return nil
			}
			s.log.WithError(err).Error("Processing cycle failed")
			wait = s.cfg.ErrorRetry
		}

		select {
		case <-ctx.Done():
			s.log.Info("Mail poller stopped")
			return nil
		case <-time.After(wait):
		}
	}
}

// runCycle performs one processing pass: organize matching messages, record
// the moves, then count unread messages.
func (s *Server) runCycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	log := s.log.WithField("cycle_id", cycleID)
	log.Info("Processing cycle started")

	var skip func(string) bool
	if s.store != nil {
		skip = s.store.Moved
	}

	result, err := s.mailbox.OrganizeBySubject(ctx, s.cfg.Term, s.cfg.Folder, skip)
	if err != nil {
		s.recordFailure(err)
		return err
	}

	if s.store != nil {
		for _, id := range result.MovedIDs {
			if err := s.store.MarkMoved(id, result.Folder); err != nil {
				log.WithError(err).Warn("Failed to record moved message")
			}
		}
	}

	unread, err := s.mailbox.InboxMessages(ctx, cloud.ListOptions{
		UnreadOnly: true,
		Top:        unreadReportLimit,
	})
	if err != nil {
		s.recordFailure(err)
		return err
	}

	log.WithFields(map[string]interface{}{
		"moved":  result.Moved,
		"unread": len(unread),
	}).Info("Processing cycle finished")

	s.mu.Lock()
	s.status.Cycles++
	s.status.MessagesMoved += result.Moved
	s.status.UnreadCount = len(unread)
	s.status.LastCycle = time.Now().UTC()
	s.status.LastError = ""
	s.mu.Unlock()

	return nil
}

func (s *Server) recordFailure(err error) {
	s.mu.Lock()
	s.status.Failures++
	s.status.LastError = err.Error()
	s.mu.Unlock()
}

func (s *Server) setRunning(running bool) {
	s.mu.Lock()
	s.status.Running = running
	s.mu.Unlock()
}
