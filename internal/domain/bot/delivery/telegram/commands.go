package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	pkgerrors "github.com/shred03/filestore-bot/pkg/errors"
)

const adminOnlyText = "❌ Only admins can use this command"

// HandleStart handles /start, with or without a deep-link payload
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	if err := h.uc.RegisterUser(ctx, &dto.StartRequest{
		UserID:    from.ID,
		ChatID:    chatID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}); err != nil {
		h.logger.Warn().Err(err).Int64("user_id", from.ID).Msg("User registration failed")
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) > 1 {
		h.redeemToken(ctx, from, chatID, fields[1])
		return
	}

	_, err := h.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("Hello %s\n\n%s", from.FirstName, welcomeText),
		ReplyMarkup: mainMenuKeyboard(),
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send welcome message")
	}
}

// redeemToken runs a redemption and renders its outcome
func (h *Handlers) redeemToken(ctx context.Context, from *models.User, chatID int64, token string) {
	result, err := h.uc.Redeem(ctx, &dto.RedeemRequest{
		UserID: from.ID,
		ChatID: chatID,
		Token:  token,
	})
	if err != nil {
		if pkgerrors.IsValidationError(err) {
			h.reply(ctx, chatID, "Files not found.")
			return
		}
		h.logger.Error().Err(err).Int64("user_id", from.ID).Msg("Redemption failed")
		h.reply(ctx, chatID, "Error retrieving files. Please try again.")
		return
	}

	switch result.Status {
	case dto.RedemptionNotFound:
		h.reply(ctx, chatID, "Files not found.")
	case dto.RedemptionGateChallenge:
		_, err := h.api.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        "⚠️ To access the files, please join our channel first.",
			ReplyMarkup: gateKeyboard(result.Gating, token),
		})
		if err != nil {
			h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send gate challenge")
		}
	}
}

// HandleLink handles /link and /sl: store a single message
func (h *Handlers) HandleLink(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 2 {
		h.reply(ctx, chatID, "Please provide the message link in the following format:\n/link https://t.me/c/xxxxx/123")
		return
	}

	result, err := h.uc.IngestOne(ctx, &dto.IngestOneRequest{
		AdminID: from.ID,
		ChatID:  chatID,
		Link:    fields[1],
	})
	if err != nil {
		h.reply(ctx, chatID, ingestErrorText(err))
		return
	}

	h.replyWithRetrievalLinks(ctx, chatID, "✅ File Stored Successfully!", result.Token)
}

// HandleBatch handles /batch and /ml: store an inclusive message range
func (h *Handlers) HandleBatch(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 3 {
		h.reply(ctx, chatID, "Format: /batch https://t.me/c/xxxxx/123 https://t.me/c/xxxxx/128")
		return
	}

	progressID, err := h.SendMessageAndGetID(ctx, chatID, "Processing messages...")
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send progress notice")
	}

	progress := func(done, total int) {
		if progressID == 0 {
			return
		}
		if err := h.EditMessageText(ctx, chatID, progressID,
			fmt.Sprintf("Processing: %d/%d messages", done, total)); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to update progress")
		}
	}

	result, err := h.uc.IngestRange(ctx, &dto.IngestRangeRequest{
		AdminID:   from.ID,
		ChatID:    chatID,
		StartLink: fields[1],
		EndLink:   fields[2],
	}, progress)

	if progressID != 0 {
		if delErr := h.DeleteMessage(ctx, chatID, progressID); delErr != nil {
			h.logger.Debug().Err(delErr).Msg("Failed to remove progress notice")
		}
	}

	if err != nil {
		h.reply(ctx, chatID, ingestErrorText(err))
		return
	}
	if result.Stored == 0 {
		h.reply(ctx, chatID, "⚠️ No valid files were found in the specified range.")
		return
	}

	header := fmt.Sprintf("✅ Stored %d/%d files!", result.Stored, result.Total)
	if result.Skipped > 0 {
		header += fmt.Sprintf("\nℹ️ %d messages were skipped (likely deleted).", result.Skipped)
	}
	h.replyWithRetrievalLinks(ctx, chatID, header, result.Token)
}

// HandleBroadcast handles /broadcast: fan the replied-to message out to
// every known user
func (h *Handlers) HandleBroadcast(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	replied := update.Message.ReplyToMessage
	if replied == nil {
		h.reply(ctx, chatID, "❌ Please reply to the message you want to broadcast")
		return
	}

	progressID, err := h.SendMessageAndGetID(ctx, chatID, "📡 Broadcasting started...")
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send progress notice")
	}

	progress := func(done, total int) {
		if progressID == 0 {
			return
		}
		if err := h.EditMessageText(ctx, chatID, progressID,
			fmt.Sprintf("📡 Broadcasting...\n%d/%d", done, total)); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to update broadcast progress")
		}
	}

	result, err := h.uc.Broadcast(ctx, &dto.BroadcastRequest{
		AdminID:    from.ID,
		FromChatID: chatID,
		MessageID:  replied.ID,
	}, progress)
	if err != nil {
		h.reply(ctx, chatID, "❌ Error during broadcast")
		return
	}

	report := fmt.Sprintf("✅ Broadcast completed!\n\n📩 Success: %d\n❌ Failed: %d", result.Success, result.Failed)
	if progressID != 0 {
		if err := h.EditMessageText(ctx, chatID, progressID, report); err != nil {
			h.reply(ctx, chatID, report)
		}
	} else {
		h.reply(ctx, chatID, report)
	}
}

// HandleStats handles /stats
func (h *Handlers) HandleStats(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	stats, err := h.uc.Stats(ctx)
	if err != nil {
		h.reply(ctx, chatID, "❌ Failed to fetch statistics.")
		return
	}

	h.reply(ctx, chatID, fmt.Sprintf(`📊 Bot Statistics Report

👥 User Statistics:
• Total Users: %d
• New Users Today: %d
• Total Admins: %d

📁 File Statistics:
• Total Files Stored: %d
• Files Added Today: %d

⚙️ System:
• Uptime: %s
• Goroutines: %d
• Heap Memory: %d MB

📅 Generated: %s`,
		stats.TotalUsers, stats.NewUsersToday, stats.TotalAdmins,
		stats.TotalFiles, stats.FilesToday,
		formatUptime(stats.UptimeSeconds), stats.Goroutines, stats.HeapAllocMB,
		time.Now().Format("2006-01-02 15:04:05")))
}

// HandleSetChannel handles /setchannel and /sc
func (h *Handlers) HandleSetChannel(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 2 {
		h.reply(ctx, chatID, "Please provide a channel ID or username in the format:\n/setchannel @channelUsername\nor\n/setchannel -100xxxxxxxxxx")
		return
	}

	ref := fields[1]
	username := ""
	if strings.HasPrefix(ref, "@") {
		username = strings.TrimPrefix(ref, "@")
	}

	channelID, err := h.ResolveChannelID(ctx, ref)
	if err != nil {
		h.reply(ctx, chatID, fmt.Sprintf("❌ Couldn't find the channel %s. Make sure the bot is added to the channel as an admin.", ref))
		return
	}

	canPost, err := h.canPostToChannel(ctx, channelID)
	if err != nil || !canPost {
		h.reply(ctx, chatID, "❌ Bot lacks the necessary permissions in this channel. Please make the bot an admin with posting privileges.")
		return
	}

	if err := h.uc.SetPostChannel(ctx, from.ID, channelID, username); err != nil {
		h.reply(ctx, chatID, "Error setting channel. Please try again.")
		return
	}

	display := channelID
	if username != "" {
		display = "@" + username
	}
	h.reply(ctx, chatID, fmt.Sprintf("✅ Channel %s has been set as your default posting channel.", display))
}

// HandleSetSticker handles /setsticker and /ss
func (h *Handlers) HandleSetSticker(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	replied := update.Message.ReplyToMessage
	if replied == nil || replied.Sticker == nil {
		h.reply(ctx, chatID, "❌ Please forward or reply to a sticker with this command")
		return
	}

	if err := h.uc.SetPostSticker(ctx, from.ID, replied.Sticker.FileID); err != nil {
		if err == boterrors.ErrNoPostChannel {
			h.reply(ctx, chatID, "❌ No channel set. Please use /setchannel command first.")
			return
		}
		h.reply(ctx, chatID, "Error setting sticker. Please try again.")
		return
	}

	h.reply(ctx, chatID, "✅ Sticker has been set for your channel posts.")
}

// HandlePost handles /post and /tp: search for a movie and open a preview
// selection
func (h *Handlers) HandlePost(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) < 3 {
		h.reply(ctx, chatID, "Please use the format: /post <movieName> <downloadLink>")
		return
	}

	downloadLink := fields[len(fields)-1]
	movieName := strings.Join(fields[1:len(fields)-1], " ")

	if _, err := h.uc.PostTarget(ctx, from.ID); err != nil {
		h.reply(ctx, chatID, "❌ No channel set. Please use /setchannel command first.")
		return
	}

	progressID, err := h.SendMessageAndGetID(ctx, chatID, "⌛ Searching for movies...")
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send progress notice")
	}

	sessionID, result, err := h.uc.StartMovieSearch(ctx, from.ID, movieName, downloadLink)

	if progressID != 0 {
		if delErr := h.DeleteMessage(ctx, chatID, progressID); delErr != nil {
			h.logger.Debug().Err(delErr).Msg("Failed to remove progress notice")
		}
	}

	if err != nil {
		if err == boterrors.ErrMovieNotFound {
			h.reply(ctx, chatID, fmt.Sprintf("❌ No movies found for: %q", movieName))
			return
		}
		h.reply(ctx, chatID, "Error searching for movies. Please try again.")
		return
	}

	_, err = h.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("🎬 Found %d results for %q\n\nPlease select a movie:", result.TotalResults, movieName),
		ReplyMarkup: movieListKeyboard(sessionID, result),
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send search results")
	}
}

// HandleRedeploy handles /restart and /redeploy
func (h *Handlers) HandleRedeploy(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	if !h.requireAdmin(ctx, from.ID, chatID) {
		return
	}

	progressID, err := h.SendMessageAndGetID(ctx, chatID, "🔄 Initiating redeployment...")
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send progress notice")
	}

	outcome := "✅ Redeployment initiated successfully! The bot will restart shortly."
	if err := h.uc.Redeploy(ctx, from.ID); err != nil {
		outcome = "❌ Failed to redeploy the bot"
	}

	if progressID != 0 {
		if err := h.EditMessageText(ctx, chatID, progressID, outcome); err != nil {
			h.reply(ctx, chatID, outcome)
		}
	} else {
		h.reply(ctx, chatID, outcome)
	}
}

// requireAdmin replies with a refusal for non-admins
func (h *Handlers) requireAdmin(ctx context.Context, userID, chatID int64) bool {
	if h.uc.IsAdmin(userID) {
		return true
	}
	h.reply(ctx, chatID, adminOnlyText)
	return false
}

func (h *Handlers) reply(ctx context.Context, chatID int64, text string) {
	if err := h.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// replyWithRetrievalLinks renders an ingestion outcome with the retrieval
// deep link and, when available, its shortened form
func (h *Handlers) replyWithRetrievalLinks(ctx context.Context, chatID int64, header, token string) {
	link := h.uc.RetrievalLink(token)
	short := h.uc.ShortenedLink(ctx, link, token)

	lines := []string{
		header,
		fmt.Sprintf("🔗 Original URL: <code>%s</code>", link),
	}
	if short != "" {
		lines = append(lines, fmt.Sprintf("🔗 Shortened URL: <code>%s</code>", short))
	} else {
		lines = append(lines, "(URL shortening service unavailable)")
	}

	_, err := h.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      strings.Join(lines, "\n"),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send retrieval links")
	}
}

// ingestErrorText maps ingestion errors to user-facing replies
func ingestErrorText(err error) string {
	switch {
	case pkgerrors.IsValidationError(err):
		return "❌ " + err.Error()
	case pkgerrors.IsPermissionError(err):
		return "❌ This channel is not allowed for file storage."
	case pkgerrors.IsNotFoundError(err):
		return "❌ Invalid channel in links."
	case pkgerrors.IsUnavailableError(err):
		if err == boterrors.ErrNoSupportedMedia {
			return "⚠️ No supported media in that message."
		}
		return "Message not found or not accessible."
	default:
		return "Error storing file. Please check if the link is from an allowed channel."
	}
}

func formatUptime(seconds int64) string {
	days := seconds / 86400
	seconds %= 86400
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
