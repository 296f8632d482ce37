package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/token"
)

// HandleCheckJoin handles the membership recheck button on a gate challenge
func (h *Handlers) HandleCheckJoin(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery

	tok := strings.TrimPrefix(cq.Data, callbackCheckJoin)
	if !token.Valid(tok) {
		h.answerCallback(ctx, cq.ID, "Error verifying membership.")
		return
	}

	if !h.uc.CheckMembership(ctx, cq.From.ID) {
		h.answerCallback(ctx, cq.ID, "❌ You haven't joined the channel yet!")
		return
	}

	h.answerCallback(ctx, cq.ID, "")

	if msg := cq.Message.Message; msg != nil {
		if err := h.DeleteMessage(ctx, msg.Chat.ID, msg.ID); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to remove gate challenge")
		}
		h.reply(ctx, msg.Chat.ID, "Go back to the post and click again to get the files")
	}
}

// HandleMenu handles the welcome menu buttons; callback data is the section
// name itself
func (h *Handlers) HandleMenu(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	msg := cq.Message.Message
	if msg == nil {
		h.answerCallback(ctx, cq.ID, "")
		return
	}

	var text string
	switch cq.Data {
	case "home":
		text = fmt.Sprintf("Hello %s\n\n%s", cq.From.FirstName, welcomeText)
	case "about":
		text = aboutText
	case "support":
		text = supportText
	case "commands":
		text = commandsText
	default:
		h.answerCallback(ctx, cq.ID, "")
		return
	}

	_, err := h.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: mainMenuKeyboard(),
	})
	if err != nil {
		h.logger.Debug().Err(err).Str("section", cq.Data).Msg("Failed to switch menu section")
	}
	h.answerCallback(ctx, cq.ID, "")
}

// HandleNoop answers the inert pagination counter button
func (h *Handlers) HandleNoop(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	h.answerCallback(ctx, update.CallbackQuery.ID, "")
}

// HandlePostPage pages through cached movie search results
func (h *Handlers) HandlePostPage(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	msg := cq.Message.Message

	sessionID, page, ok := splitSessionCallback(cq.Data, callbackPostPage)
	if !ok || msg == nil {
		h.answerCallback(ctx, cq.ID, "Error loading page")
		return
	}

	result, err := h.uc.PageMovieSearch(ctx, sessionID, int(page))
	if err != nil {
		if err == boterrors.ErrSessionExpired {
			h.answerCallback(ctx, cq.ID, "Session expired. Please search again.")
			return
		}
		h.answerCallback(ctx, cq.ID, "Error loading page")
		return
	}
	if len(result.Movies) == 0 {
		h.answerCallback(ctx, cq.ID, "No results found on this page")
		return
	}

	_, err = h.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text: fmt.Sprintf("🎬 Found %d results (Page %d/%d)\n\nPlease select a movie:",
			result.TotalResults, result.Page, result.TotalPages),
		ReplyMarkup: movieListKeyboard(sessionID, result),
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to update search page")
	}
	h.answerCallback(ctx, cq.ID, "")
}

// HandlePostPick resolves a movie selection and publishes the post to the
// admin's configured channel
func (h *Handlers) HandlePostPick(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	msg := cq.Message.Message

	sessionID, movieID, ok := splitSessionCallback(cq.Data, callbackPostPick)
	if !ok || msg == nil {
		h.answerCallback(ctx, cq.ID, "Error loading movie")
		return
	}

	h.answerCallback(ctx, cq.ID, "Loading movie details...")
	if err := h.EditMessageText(ctx, msg.Chat.ID, msg.ID, "⌛ Fetching movie details..."); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to update selection message")
	}

	movie, setting, downloadLink, err := h.uc.PickMovie(ctx, sessionID, movieID)
	if err != nil {
		switch err {
		case boterrors.ErrSessionExpired:
			h.editOrReply(ctx, msg.Chat.ID, msg.ID, "Session expired. Please search again.")
		case boterrors.ErrNoPostChannel:
			h.editOrReply(ctx, msg.Chat.ID, msg.ID, "❌ No channel set. Please use /setchannel command first.")
		default:
			h.editOrReply(ctx, msg.Chat.ID, msg.ID, "Error creating movie post. Please try again.")
		}
		return
	}

	if err := h.publishMoviePost(ctx, movie, setting, downloadLink); err != nil {
		h.logger.Error().Err(err).
			Str("channel_id", setting.ChannelID).
			Int64("movie_id", movie.ID).
			Msg("Failed to publish post")
		h.editOrReply(ctx, msg.Chat.ID, msg.ID, "Error posting to the channel. Please check the bot's permissions.")
		return
	}

	display := setting.ChannelID
	if setting.ChannelUsername != "" {
		display = "@" + setting.ChannelUsername
	}
	h.editOrReply(ctx, msg.Chat.ID, msg.ID, fmt.Sprintf("✅ Posted %s to %s", movie.Title, display))
}

// publishMoviePost sends the formatted post, then the chaser sticker when
// one is configured. A failed sticker never fails the post.
func (h *Handlers) publishMoviePost(ctx context.Context, movie *entities.Movie, setting *entities.PostSetting, downloadLink string) error {
	caption := moviePostCaption(movie)

	var err error
	if movie.BackdropURL != "" {
		_, err = h.api.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:      setting.ChannelID,
			Photo:       &models.InputFileString{Data: movie.BackdropURL},
			Caption:     caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: downloadKeyboard(downloadLink),
		})
	} else {
		_, err = h.api.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      setting.ChannelID,
			Text:        caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: downloadKeyboard(downloadLink),
		})
	}
	if err != nil {
		return err
	}

	if setting.StickerID != "" {
		_, err := h.api.SendSticker(ctx, &tgbot.SendStickerParams{
			ChatID:  setting.ChannelID,
			Sticker: &models.InputFileString{Data: setting.StickerID},
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("channel_id", setting.ChannelID).Msg("Failed to send chaser sticker")
		}
	}
	return nil
}

func moviePostCaption(movie *entities.Movie) string {
	synopsis := movie.Overview
	if synopsis == "" {
		synopsis = "No synopsis available"
	}

	return fmt.Sprintf(`<b>%s (%s)

» 𝗚𝗲𝗻𝗿𝗲: %s
» 𝗥𝘂𝗻𝘁𝗶𝗺𝗲: %s

» 𝗦𝘆𝗻𝗼𝗽𝘀𝗶𝘀:</b>
<blockquote>%s</blockquote>`,
		movie.Title,
		releaseYear(movie.ReleaseDate),
		strings.Join(movie.Genres, ", "),
		formatRuntime(movie.Runtime),
		synopsis)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "NA"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
}

// splitSessionCallback parses "<prefix><sessionID>_<number>" callback data
func splitSessionCallback(data, prefix string) (string, int64, bool) {
	rest := strings.TrimPrefix(data, prefix)
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil || n < 1 {
		return "", 0, false
	}
	return rest[:idx], n, true
}

func (h *Handlers) answerCallback(ctx context.Context, callbackID, text string) {
	_, err := h.api.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to answer callback query")
	}
}

func (h *Handlers) editOrReply(ctx context.Context, chatID int64, messageID int, text string) {
	if err := h.EditMessageText(ctx, chatID, messageID, text); err != nil {
		h.reply(ctx, chatID, text)
	}
}
