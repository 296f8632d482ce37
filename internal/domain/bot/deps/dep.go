// Package deps contains interface definitions for the bot domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
)

// TelegramSender defines the delivery-sink and message-fetch capabilities
// the use cases need from Telegram.
// This interface is used to break the cyclic dependency between UseCase and
// the Telegram handlers; the handlers implement it.
type TelegramSender interface {
	// SendMessage sends a text message to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendMessageAndGetID sends a text message and returns the telegram message ID
	SendMessageAndGetID(ctx context.Context, chatID int64, text string) (messageID int, err error)

	// EditMessageText edits message text in a chat
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error

	// DeleteMessage deletes a message from a chat
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// SendStoredFile delivers one catalog entry with its kind's send
	// operation, preserving the original caption, and returns the
	// delivered message ID for later retraction
	SendStoredFile(ctx context.Context, chatID int64, file entities.StoredFile) (messageID int, err error)

	// FetchChannelMessage performs a copy-and-discard fetch: the source
	// message is duplicated into scratchChatID without notification, its
	// payload is classified, and the duplicate is deleted. A nil
	// descriptor with nil error means the message carries no supported
	// media.
	FetchChannelMessage(ctx context.Context, scratchChatID int64, channelID string, sequence int) (*entities.MediaDescriptor, error)

	// CopyMessage copies a message between chats preserving reply markup;
	// used by broadcast fan-out
	CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error

	// ResolveChannelID resolves an "@username" reference to the canonical
	// numeric channel id; canonical ids pass through unchanged
	ResolveChannelID(ctx context.Context, ref string) (string, error)

	// BotUsername returns the bot's username for deep-link construction
	BotUsername() string
}

// MembershipOracle answers channel-membership questions for gating.
type MembershipOracle interface {
	// IsMember reports whether userID currently belongs to channelID.
	// Statuses left/kicked mean non-member; lookup failure is reported as
	// an error and treated by callers as non-membership.
	IsMember(ctx context.Context, channelID string, userID int64) (bool, error)
}

// RetractionScheduler registers deferred deletion of delivered copies.
type RetractionScheduler interface {
	// Schedule queues one retraction task and returns its id. The task
	// fires once after delay, attempting one delete per message id.
	Schedule(chatID int64, messageIDs []int, delay time.Duration) string
}

// FileRepository defines catalog access for stored files.
type FileRepository interface {
	// Insert persists a single record
	Insert(ctx context.Context, file *entities.StoredFile) error

	// InsertMany bulk-persists a buffered batch
	InsertMany(ctx context.Context, files []entities.StoredFile) error

	// FindByToken returns all records for a token ordered by message
	// sequence ascending
	FindByToken(ctx context.Context, token string) ([]entities.StoredFile, error)

	// Count returns the total number of records
	Count(ctx context.Context) (int64, error)

	// CountSince returns records created at or after the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// UserRepository defines access to the user registry.
type UserRepository interface {
	// Upsert creates or refreshes a user record by user id
	Upsert(ctx context.Context, user *entities.User) error

	// All returns every known user
	All(ctx context.Context) ([]entities.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)

	// CountSince returns users first seen at or after the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// PostRepository defines access to per-admin post settings.
type PostRepository interface {
	// LatestForAdmin returns the admin's current setting, or a not-found error
	LatestForAdmin(ctx context.Context, adminID int64) (*entities.PostSetting, error)

	// UpsertChannel sets the admin's posting channel
	UpsertChannel(ctx context.Context, adminID int64, channelID, channelUsername string) error

	// UpsertSticker sets the admin's chaser sticker
	UpsertSticker(ctx context.Context, adminID int64, stickerID string) error
}

// AuditLogger mirrors operational events to the log channel. Implementations
// are best-effort: auditing never fails the audited operation.
type AuditLogger interface {
	Command(ctx context.Context, userID int64, username, command, status, details string)
	Error(ctx context.Context, userID int64, username, command, details string)
}

// LinkShortener shortens retrieval links.
type LinkShortener interface {
	// Shorten returns a shortened URL for the original, or an error when
	// the service is unavailable; callers fall back to the original URL
	Shorten(ctx context.Context, originalURL, alias string) (string, error)
}

// MovieDatabase is the TMDB-backed metadata source for the post composer.
type MovieDatabase interface {
	SearchMovies(ctx context.Context, query string, page int) (*entities.MovieSearchResult, error)
	MovieDetails(ctx context.Context, movieID int64) (*entities.Movie, error)
}

// Redeployer triggers a platform redeploy of the bot itself.
type Redeployer interface {
	Redeploy(ctx context.Context) error
}
