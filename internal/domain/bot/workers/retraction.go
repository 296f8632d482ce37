// Package workers contains background workers for the bot domain
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// retractionSender is the slice of the Telegram sender the scheduler needs.
type retractionSender interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// RetractionTask is one pending deletion of delivered copies. Tasks are
// independent one-shot timers; pending tasks do not survive a restart.
type RetractionTask struct {
	ID         string
	ChatID     int64
	MessageIDs []int
	Due        time.Time
}

// RetractionScheduler fires deferred deletions of delivered messages.
// Implements deps.RetractionScheduler.
type RetractionScheduler struct {
	sender retractionSender
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

// NewRetractionScheduler creates a scheduler.
// Note: sender is set after construction to break the cyclic dependency
// with the Telegram handlers.
func NewRetractionScheduler(logger zerolog.Logger) *RetractionScheduler {
	return &RetractionScheduler{
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
}

// SetSender sets the TelegramSender after construction.
func (s *RetractionScheduler) SetSender(sender retractionSender) {
	s.sender = sender
}

// Schedule registers a one-shot retraction of messageIDs in chatID after
// delay and returns the task id. Scheduled tasks cannot be cancelled.
func (s *RetractionScheduler) Schedule(chatID int64, messageIDs []int, delay time.Duration) string {
	task := &RetractionTask{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		MessageIDs: append([]int(nil), messageIDs...),
		Due:        time.Now().Add(delay),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.logger.Warn().Str("task_id", task.ID).Msg("Scheduler stopped, retraction dropped")
		return task.ID
	}

	s.wg.Add(1)
	s.pending[task.ID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.run(task)

		s.mu.Lock()
		delete(s.pending, task.ID)
		s.mu.Unlock()
	})

	s.logger.Info().
		Str("task_id", task.ID).
		Int64("chat_id", chatID).
		Int("message_count", len(task.MessageIDs)).
		Time("due", task.Due).
		Msg("Retraction task scheduled")

	return task.ID
}

// run attempts exactly one delete per collected message id. Individual
// failures (already deleted, permission revoked) never block the rest.
func (s *RetractionScheduler) run(task *RetractionTask) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	retracted := 0
	for _, msgID := range task.MessageIDs {
		if err := s.sender.DeleteMessage(ctx, task.ChatID, msgID); err != nil {
			s.logger.Warn().Err(err).
				Str("task_id", task.ID).
				Int64("chat_id", task.ChatID).
				Int("message_id", msgID).
				Msg("Failed to retract message")
			continue
		}
		retracted++
	}

	if err := s.sender.SendMessage(ctx, task.ChatID, "🗑️ Files have been automatically deleted."); err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("Failed to send retraction notice")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Int64("chat_id", task.ChatID).
		Int("retracted", retracted).
		Int("total", len(task.MessageIDs)).
		Msg("Retraction task completed")
}

// PendingCount returns the number of tasks not yet fired.
func (s *RetractionScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop prevents new tasks from being scheduled. Already-armed timers keep
// their fire-and-forget semantics for the remainder of the process.
func (s *RetractionScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.logger.Info().Msg("Retraction scheduler stopped")
}
