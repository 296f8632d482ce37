// Package errors contains domain-specific errors for the bot domain
package errors

import (
	pkgerrors "github.com/shred03/filestore-bot/pkg/errors"
)

// Domain errors for ingestion and redemption
var (
	ErrChannelNotFound    = pkgerrors.NewNotFoundError("channel not found")
	ErrChannelNotAllowed  = pkgerrors.NewPermissionError("this channel is not allowed for file storage")
	ErrChannelMismatch    = pkgerrors.NewValidationError("both links must be from the same channel")
	ErrInvalidRange       = pkgerrors.NewValidationError("end message must not precede start message")
	ErrRangeTooLarge      = pkgerrors.NewValidationError("maximum range is 100 messages")
	ErrMessageUnavailable = pkgerrors.NewUnavailableError("message not found or not accessible")
	ErrNoSupportedMedia   = pkgerrors.NewUnavailableError("no supported media in message")
	ErrFilesNotFound      = pkgerrors.NewNotFoundError("files not found")
	ErrInvalidToken       = pkgerrors.NewValidationError("invalid token format")
	ErrSenderNotSet       = pkgerrors.NewInternalError("telegram sender is not set")
)

// Domain errors for the post composer
var (
	ErrNoPostChannel   = pkgerrors.NewNotFoundError("no channel set, use /setchannel first")
	ErrMovieNotFound   = pkgerrors.NewNotFoundError("movie not found")
	ErrSessionExpired  = pkgerrors.NewNotFoundError("search session expired, run the search again")
	ErrBotCannotPost   = pkgerrors.NewPermissionError("bot lacks posting privileges in this channel")
	ErrRedeployFailure = pkgerrors.NewUnavailableError("redeploy request failed")
)
