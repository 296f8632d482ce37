package buissines

import (
	"context"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/previewcache"
)

// SetPostChannel stores the admin's posting target.
func (uc *UseCase) SetPostChannel(ctx context.Context, adminID int64, channelID, channelUsername string) error {
	if err := uc.posts.UpsertChannel(ctx, adminID, channelID, channelUsername); err != nil {
		uc.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to save post channel")
		return err
	}

	uc.logger.Info().
		Int64("admin_id", adminID).
		Str("channel_id", channelID).
		Msg("Post channel set")
	return nil
}

// SetPostSticker attaches a chaser sticker to the admin's post setting.
// Requires a channel to be configured first.
func (uc *UseCase) SetPostSticker(ctx context.Context, adminID int64, stickerID string) error {
	if _, err := uc.posts.LatestForAdmin(ctx, adminID); err != nil {
		return boterrors.ErrNoPostChannel
	}

	if err := uc.posts.UpsertSticker(ctx, adminID, stickerID); err != nil {
		uc.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to save post sticker")
		return err
	}

	uc.logger.Info().Int64("admin_id", adminID).Msg("Post sticker set")
	return nil
}

// PostTarget returns the admin's configured posting channel.
func (uc *UseCase) PostTarget(ctx context.Context, adminID int64) (*entities.PostSetting, error) {
	setting, err := uc.posts.LatestForAdmin(ctx, adminID)
	if err != nil {
		return nil, boterrors.ErrNoPostChannel
	}
	return setting, nil
}

// StartMovieSearch runs the first page of a TMDB search and opens a
// preview session carrying the query and download link. The returned
// session id travels inside callback data.
func (uc *UseCase) StartMovieSearch(ctx context.Context, adminID int64, query, downloadLink string) (string, *entities.MovieSearchResult, error) {
	result, err := uc.movies.SearchMovies(ctx, query, 1)
	if err != nil {
		uc.logger.Error().Err(err).Str("query", query).Msg("Movie search failed")
		return "", nil, err
	}
	if result.TotalResults == 0 {
		return "", nil, boterrors.ErrMovieNotFound
	}

	sessionID := uc.previews.Put(previewcache.Session{
		AdminID:      adminID,
		Query:        query,
		DownloadLink: downloadLink,
		Page:         1,
	})

	return sessionID, result, nil
}

// PageMovieSearch re-runs a cached search on another page.
func (uc *UseCase) PageMovieSearch(ctx context.Context, sessionID string, page int) (*entities.MovieSearchResult, error) {
	session, ok := uc.previews.Get(sessionID)
	if !ok {
		return nil, boterrors.ErrSessionExpired
	}

	result, err := uc.movies.SearchMovies(ctx, session.Query, page)
	if err != nil {
		return nil, err
	}

	session.Page = page
	uc.previews.Update(sessionID, session)

	return result, nil
}

// PickMovie resolves a selection to full movie details plus the admin's
// posting target and the session's download link, then closes the session.
func (uc *UseCase) PickMovie(ctx context.Context, sessionID string, movieID int64) (*entities.Movie, *entities.PostSetting, string, error) {
	session, ok := uc.previews.Get(sessionID)
	if !ok {
		return nil, nil, "", boterrors.ErrSessionExpired
	}

	setting, err := uc.PostTarget(ctx, session.AdminID)
	if err != nil {
		return nil, nil, "", err
	}

	movie, err := uc.movies.MovieDetails(ctx, movieID)
	if err != nil {
		uc.logger.Error().Err(err).Int64("movie_id", movieID).Msg("Movie details fetch failed")
		return nil, nil, "", err
	}

	uc.previews.Delete(sessionID)

	return movie, setting, session.DownloadLink, nil
}

// Redeploy triggers a platform redeploy of the bot.
func (uc *UseCase) Redeploy(ctx context.Context, adminID int64) error {
	if uc.deploy == nil {
		return boterrors.ErrRedeployFailure
	}

	if err := uc.deploy.Redeploy(ctx); err != nil {
		uc.audit.Error(ctx, adminID, "", "redeploy", err.Error())
		return err
	}

	uc.audit.Command(ctx, adminID, "", "redeploy", "SUCCESS", "Bot redeployment triggered")
	return nil
}
