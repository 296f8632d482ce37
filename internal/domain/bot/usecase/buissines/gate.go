package buissines

import (
	"context"

	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/msglink"
)

// resolveChannel turns a link reference into a canonical channel id.
// Username references go through the directory lookup; canonical ids pass
// through unchanged.
func (uc *UseCase) resolveChannel(ctx context.Context, ref msglink.Ref) (string, error) {
	if !ref.NeedsResolution() {
		return ref.Channel, nil
	}

	id, err := uc.sender.ResolveChannelID(ctx, ref.Channel)
	if err != nil {
		uc.logger.Warn().Err(err).Str("ref", ref.Channel).Msg("Channel resolution failed")
		return "", boterrors.ErrChannelNotFound
	}
	return id, nil
}

// isAllowedChannel checks the canonical id against the ingestion
// allow-list. A miss is a policy rejection, not a lookup failure; the
// caller reports it without detailing the allow-list.
func (uc *UseCase) isAllowedChannel(id string) bool {
	for _, allowed := range uc.cfg.Storage.AllowedChannels {
		if allowed == id {
			return true
		}
	}
	return false
}

// resolveAllowedChannel resolves ref and enforces the allow-list.
func (uc *UseCase) resolveAllowedChannel(ctx context.Context, ref msglink.Ref) (string, error) {
	id, err := uc.resolveChannel(ctx, ref)
	if err != nil {
		return "", err
	}
	if !uc.isAllowedChannel(id) {
		return "", boterrors.ErrChannelNotAllowed
	}
	return id, nil
}
