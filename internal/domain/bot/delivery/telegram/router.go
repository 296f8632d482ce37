package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command and callback handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	// Command handlers
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/link", tgbot.MatchTypePrefix, r.handlers.HandleLink)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/sl", tgbot.MatchTypePrefix, r.handlers.HandleLink)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/batch", tgbot.MatchTypePrefix, r.handlers.HandleBatch)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/ml", tgbot.MatchTypePrefix, r.handlers.HandleBatch)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/broadcast", tgbot.MatchTypeExact, r.handlers.HandleBroadcast)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypeExact, r.handlers.HandleStats)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/setchannel", tgbot.MatchTypePrefix, r.handlers.HandleSetChannel)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/sc", tgbot.MatchTypePrefix, r.handlers.HandleSetChannel)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/setsticker", tgbot.MatchTypeExact, r.handlers.HandleSetSticker)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/ss", tgbot.MatchTypeExact, r.handlers.HandleSetSticker)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/post", tgbot.MatchTypePrefix, r.handlers.HandlePost)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/tp", tgbot.MatchTypePrefix, r.handlers.HandlePost)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/restart", tgbot.MatchTypeExact, r.handlers.HandleRedeploy)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/redeploy", tgbot.MatchTypeExact, r.handlers.HandleRedeploy)

	// Callback handlers
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, callbackCheckJoin, tgbot.MatchTypePrefix, r.handlers.HandleCheckJoin)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, callbackPostPick, tgbot.MatchTypePrefix, r.handlers.HandlePostPick)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, callbackPostPage, tgbot.MatchTypePrefix, r.handlers.HandlePostPage)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, callbackNoop, tgbot.MatchTypeExact, r.handlers.HandleNoop)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "home", tgbot.MatchTypeExact, r.handlers.HandleMenu)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "about", tgbot.MatchTypeExact, r.handlers.HandleMenu)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "support", tgbot.MatchTypeExact, r.handlers.HandleMenu)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "commands", tgbot.MatchTypeExact, r.handlers.HandleMenu)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}
