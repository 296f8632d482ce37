// Package audit mirrors operational events to a Telegram log channel
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
)

// auditSender is the slice of the Telegram sender auditing needs.
type auditSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ChannelLogger posts formatted audit entries to the configured log channel.
// All methods are best-effort: a failed audit write never fails the audited
// operation. Implements deps.AuditLogger.
type ChannelLogger struct {
	channelID int64
	sender    auditSender
	logger    zerolog.Logger
}

// NewChannelLogger creates a channel audit logger.
// Note: sender is set after construction to break the cyclic dependency
// with the Telegram handlers.
func NewChannelLogger(cfg *config.TelegramConfig, logger zerolog.Logger) *ChannelLogger {
	return &ChannelLogger{
		channelID: cfg.LogChannelID,
		logger:    logger.With().Str("component", "audit").Logger(),
	}
}

// SetSender sets the TelegramSender after construction.
func (l *ChannelLogger) SetSender(sender auditSender) {
	l.sender = sender
}

// Command records a command invocation.
func (l *ChannelLogger) Command(ctx context.Context, userID int64, username, command, status, details string) {
	l.post(ctx, "COMMAND", userID, username, command, status, details)
}

// Error records a failed operation.
func (l *ChannelLogger) Error(ctx context.Context, userID int64, username, command, details string) {
	l.post(ctx, "ERROR", userID, username, command, "FAILED", details)
}

func (l *ChannelLogger) post(ctx context.Context, kind string, userID int64, username, command, status, details string) {
	if l.channelID == 0 || l.sender == nil {
		return
	}

	var b strings.Builder
	b.WriteString("📝 Bot Log Entry\n")
	fmt.Fprintf(&b, "⏰ Time: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "👤 User: %s\n", username)
	fmt.Fprintf(&b, "👤 UserID: (%d)\n", userID)
	fmt.Fprintf(&b, "🤖 Command: %s\n", command)
	fmt.Fprintf(&b, "📊 Status: %s\n", status)
	fmt.Fprintf(&b, "🔍 Type: %s", kind)
	if details != "" {
		fmt.Fprintf(&b, "\n📋 Details: %s", details)
	}

	if err := l.sender.SendMessage(ctx, l.channelID, b.String()); err != nil {
		l.logger.Warn().Err(err).Str("command", command).Msg("Failed to post audit entry")
	}
}
