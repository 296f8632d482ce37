// Package entities contains domain entities
package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileKind tags the payload type of a stored file. It is decided once at
// classification time and carried immutably; delivery dispatches on it.
type FileKind string

const (
	FileKindDocument  FileKind = "document"
	FileKindPhoto     FileKind = "photo"
	FileKindVideo     FileKind = "video"
	FileKindAnimation FileKind = "animation"
	FileKindSticker   FileKind = "sticker"
)

// StoredFile is one catalog entry: an opaque payload reference tagged with
// its batch token. Records are immutable after ingestion and never deleted;
// only delivered copies are ever retracted.
type StoredFile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	FileName        string             `bson:"file_name"`
	FileID          string             `bson:"file_id"`
	FileKind        FileKind           `bson:"file_kind"`
	SourceChannel   string             `bson:"channel_id"`
	MessageSequence int                `bson:"message_id"`
	BatchToken      string             `bson:"token"`
	StoredBy        int64              `bson:"stored_by"`
	OriginalCaption string             `bson:"original_caption"`
	CreatedAt       time.Time          `bson:"created_at"`
}

// MediaDescriptor is the classified payload extracted from a fetched
// message, before it becomes a StoredFile.
type MediaDescriptor struct {
	FileName string
	FileID   string
	Kind     FileKind
	Caption  string
}

// User is anyone who has started the bot. Upserted by user id on every
// /start invocation.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`
	Username  string             `bson:"username"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	CreatedAt time.Time          `bson:"created_at"`
}

// PostSetting is the per-admin target for the post composer.
type PostSetting struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	AdminID         int64              `bson:"admin_id"`
	ChannelID       string             `bson:"channel_id"`
	ChannelUsername string             `bson:"channel_username"`
	StickerID       string             `bson:"sticker_id"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

// GatingChannel is one channel membership gate. A non-admin requester must
// be a member of every configured gating channel before redemption.
type GatingChannel struct {
	ID       string
	Username string
}

// JoinURL returns the public join link for the channel.
func (g GatingChannel) JoinURL() string {
	return "https://t.me/" + g.Username
}
