// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/internal/domain/bot/usecase/buissines"
	"github.com/shred03/filestore-bot/internal/infrastructure/telegram"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
)

// Handlers contains Telegram command and callback handlers.
// Implements deps.TelegramSender and deps.MembershipOracle.
type Handlers struct {
	uc     *buissines.UseCase
	api    *tgbot.Bot
	bot    *telegram.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, bot *telegram.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		api:    bot.Raw(),
		bot:    bot,
		logger: logger,
	}
}

// SendMessage implements deps.TelegramSender interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := h.SendMessageAndGetID(ctx, chatID, text)
	return err
}

// SendMessageAndGetID implements deps.TelegramSender interface
func (h *Handlers) SendMessageAndGetID(ctx context.Context, chatID int64, text string) (int, error) {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return 0, fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.api.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// EditMessageText implements deps.TelegramSender interface
func (h *Handlers) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.api.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage implements deps.TelegramSender interface
func (h *Handlers) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.api.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendStoredFile implements deps.TelegramSender interface. Each file kind
// uses its own send operation; stickers carry no caption.
func (h *Handlers) SendStoredFile(ctx context.Context, chatID int64, file entities.StoredFile) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	payload := &models.InputFileString{Data: file.FileID}

	var (
		msg *models.Message
		err error
	)
	switch file.FileKind {
	case entities.FileKindDocument:
		msg, err = h.api.SendDocument(msgCtx, &tgbot.SendDocumentParams{
			ChatID:   chatID,
			Document: payload,
			Caption:  file.OriginalCaption,
		})
	case entities.FileKindPhoto:
		msg, err = h.api.SendPhoto(msgCtx, &tgbot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   payload,
			Caption: file.OriginalCaption,
		})
	case entities.FileKindVideo:
		msg, err = h.api.SendVideo(msgCtx, &tgbot.SendVideoParams{
			ChatID:  chatID,
			Video:   payload,
			Caption: file.OriginalCaption,
		})
	case entities.FileKindAnimation:
		msg, err = h.api.SendAnimation(msgCtx, &tgbot.SendAnimationParams{
			ChatID:    chatID,
			Animation: payload,
			Caption:   file.OriginalCaption,
		})
	case entities.FileKindSticker:
		msg, err = h.api.SendSticker(msgCtx, &tgbot.SendStickerParams{
			ChatID:  chatID,
			Sticker: payload,
		})
	default:
		return 0, fmt.Errorf("unknown file kind: %s", file.FileKind)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to send %s: %w", file.FileKind, err)
	}
	return msg.ID, nil
}

// FetchChannelMessage implements deps.TelegramSender interface. The source
// message is duplicated into the scratch chat without notification,
// classified and immediately deleted.
func (h *Handlers) FetchChannelMessage(ctx context.Context, scratchChatID int64, channelID string, sequence int) (*entities.MediaDescriptor, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.api.ForwardMessage(msgCtx, &tgbot.ForwardMessageParams{
		ChatID:              scratchChatID,
		FromChatID:          channelID,
		MessageID:           sequence,
		DisableNotification: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %d: %w", sequence, err)
	}

	media := classifyMedia(msg)

	if _, err := h.api.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    scratchChatID,
		MessageID: msg.ID,
	}); err != nil {
		h.logger.Warn().Err(err).
			Int64("chat_id", scratchChatID).
			Int("message_id", msg.ID).
			Msg("Failed to remove scratch copy")
	}

	return media, nil
}

// classifyMedia extracts the payload reference from a message. Order is
// significant: document, photo, video, animation, sticker. Returns nil for
// messages without supported media.
func classifyMedia(msg *models.Message) *entities.MediaDescriptor {
	caption := msg.Caption

	switch {
	case msg.Document != nil:
		return &entities.MediaDescriptor{
			FileName: msg.Document.FileName,
			FileID:   msg.Document.FileID,
			Kind:     entities.FileKindDocument,
			Caption:  caption,
		}
	case len(msg.Photo) > 0:
		// Last photo size is the highest resolution
		return &entities.MediaDescriptor{
			FileName: "photo.jpg",
			FileID:   msg.Photo[len(msg.Photo)-1].FileID,
			Kind:     entities.FileKindPhoto,
			Caption:  caption,
		}
	case msg.Video != nil:
		name := msg.Video.FileName
		if name == "" {
			name = "video.mp4"
		}
		return &entities.MediaDescriptor{
			FileName: name,
			FileID:   msg.Video.FileID,
			Kind:     entities.FileKindVideo,
			Caption:  caption,
		}
	case msg.Animation != nil:
		return &entities.MediaDescriptor{
			FileName: "animation.gif",
			FileID:   msg.Animation.FileID,
			Kind:     entities.FileKindAnimation,
			Caption:  caption,
		}
	case msg.Sticker != nil:
		return &entities.MediaDescriptor{
			FileName: "sticker.webp",
			FileID:   msg.Sticker.FileID,
			Kind:     entities.FileKindSticker,
			Caption:  caption,
		}
	}
	return nil
}

// CopyMessage implements deps.TelegramSender interface
func (h *Handlers) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.api.CopyMessage(msgCtx, &tgbot.CopyMessageParams{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to copy message: %w", err)
	}
	return nil
}

// ResolveChannelID implements deps.TelegramSender interface. Canonical
// numeric ids pass through unchanged.
func (h *Handlers) ResolveChannelID(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "@") {
		return ref, nil
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	chat, err := h.api.GetChat(msgCtx, &tgbot.GetChatParams{ChatID: ref})
	if err != nil {
		h.logger.Warn().Err(err).Str("ref", ref).Msg("Channel resolution failed")
		return "", boterrors.ErrChannelNotFound
	}
	return strconv.FormatInt(chat.ID, 10), nil
}

// BotUsername implements deps.TelegramSender interface
func (h *Handlers) BotUsername() string {
	return h.bot.Username()
}

// IsMember implements deps.MembershipOracle interface. Statuses left and
// kicked mean non-member; everything else counts as membership.
func (h *Handlers) IsMember(ctx context.Context, channelID string, userID int64) (bool, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	member, err := h.api.GetChatMember(msgCtx, &tgbot.GetChatMemberParams{
		ChatID: channelID,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	switch member.Type {
	case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
		return false, nil
	default:
		return true, nil
	}
}

// canPostToChannel reports whether the bot itself has posting privileges
// in the given channel.
func (h *Handlers) canPostToChannel(ctx context.Context, channelID string) (bool, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	me, err := h.api.GetMe(msgCtx)
	if err != nil {
		return false, fmt.Errorf("failed to resolve bot identity: %w", err)
	}

	member, err := h.api.GetChatMember(msgCtx, &tgbot.GetChatMemberParams{
		ChatID: channelID,
		UserID: me.ID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check bot membership: %w", err)
	}

	switch member.Type {
	case models.ChatMemberTypeOwner:
		return true, nil
	case models.ChatMemberTypeAdministrator:
		return member.Administrator != nil && member.Administrator.CanPostMessages, nil
	default:
		return false, nil
	}
}
