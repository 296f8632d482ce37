// Package buissines contains business logic for the bot domain
package buissines

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain/bot/deps"
	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	"github.com/shred03/filestore-bot/pkg/previewcache"
)

// UseCase contains business logic for bot operations
type UseCase struct {
	files    deps.FileRepository
	users    deps.UserRepository
	posts    deps.PostRepository
	movies   deps.MovieDatabase
	short    deps.LinkShortener
	deploy   deps.Redeployer
	audit    deps.AuditLogger
	previews *previewcache.Cache

	sender    deps.TelegramSender
	oracle    deps.MembershipOracle
	scheduler deps.RetractionScheduler

	cfg       *config.Config
	gating    []entities.GatingChannel
	startedAt time.Time
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: sender, oracle and scheduler are not passed here to break cyclic
// dependencies. Use the setters after creating the Telegram handlers.
func NewUseCase(
	files deps.FileRepository,
	users deps.UserRepository,
	posts deps.PostRepository,
	movies deps.MovieDatabase,
	short deps.LinkShortener,
	deploy deps.Redeployer,
	audit deps.AuditLogger,
	previews *previewcache.Cache,
	cfg *config.Config,
	logger zerolog.Logger,
) *UseCase {
	gating := make([]entities.GatingChannel, 0, len(cfg.Gating.ChannelIDs))
	for i, id := range cfg.Gating.ChannelIDs {
		gating = append(gating, entities.GatingChannel{
			ID:       id,
			Username: cfg.Gating.ChannelUsernames[i],
		})
	}

	return &UseCase{
		files:     files,
		users:     users,
		posts:     posts,
		movies:    movies,
		short:     short,
		deploy:    deploy,
		audit:     audit,
		previews:  previews,
		cfg:       cfg,
		gating:    gating,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// SetSender sets the TelegramSender after construction.
// This is called by fx.Invoke to resolve the cyclic dependency.
func (uc *UseCase) SetSender(sender deps.TelegramSender) {
	uc.sender = sender
}

// SetMembershipOracle sets the MembershipOracle after construction.
func (uc *UseCase) SetMembershipOracle(oracle deps.MembershipOracle) {
	uc.oracle = oracle
}

// SetScheduler sets the RetractionScheduler after construction.
func (uc *UseCase) SetScheduler(scheduler deps.RetractionScheduler) {
	uc.scheduler = scheduler
}

// IsAdmin reports whether userID is a configured admin
func (uc *UseCase) IsAdmin(userID int64) bool {
	return uc.cfg.Telegram.IsAdmin(userID)
}

// GatingChannels returns the configured membership gates
func (uc *UseCase) GatingChannels() []entities.GatingChannel {
	return uc.gating
}

// RegisterUser upserts the user record on /start, with or without a
// deep-link payload
func (uc *UseCase) RegisterUser(ctx context.Context, req *dto.StartRequest) error {
	user := &entities.User{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
	}

	if err := uc.users.Upsert(ctx, user); err != nil {
		uc.logger.Error().Err(err).Int64("user_id", req.UserID).Msg("Failed to upsert user")
		return err
	}

	uc.logger.Debug().Int64("user_id", req.UserID).Str("username", req.Username).Msg("User registered")
	return nil
}

// RetrievalLink builds the deep link that redeems token
func (uc *UseCase) RetrievalLink(token string) string {
	return "https://t.me/" + uc.sender.BotUsername() + "?start=" + token
}

// ShortenedLink returns a shortened retrieval link, or empty when the
// shortener is unconfigured or unavailable
func (uc *UseCase) ShortenedLink(ctx context.Context, originalURL, alias string) string {
	if uc.short == nil {
		return ""
	}
	shortURL, err := uc.short.Shorten(ctx, originalURL, alias)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("URL shortening failed")
		return ""
	}
	return shortURL
}
