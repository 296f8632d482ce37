package buissines

import (
	"context"
	"fmt"
	"time"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/token"
)

// Redeem delivers the file set behind a token into the requester's chat,
// after membership gating for non-admins. Delivery is sequential and
// best-effort per item; with auto-delete enabled every message produced
// during the redemption is scheduled for retraction.
func (uc *UseCase) Redeem(ctx context.Context, req *dto.RedeemRequest) (*dto.RedeemResult, error) {
	if !token.Valid(req.Token) {
		return nil, boterrors.ErrInvalidToken
	}

	files, err := uc.files.FindByToken(ctx, req.Token)
	if err != nil {
		uc.logger.Error().Err(err).Str("token", req.Token).Msg("Catalog lookup failed")
		return nil, err
	}
	if len(files) == 0 {
		uc.logger.Info().Str("token", req.Token).Int64("user_id", req.UserID).Msg("Redemption of unknown token")
		return &dto.RedeemResult{Status: dto.RedemptionNotFound}, nil
	}

	if !uc.IsAdmin(req.UserID) {
		granted := uc.CheckMembership(ctx, req.UserID)
		if !granted {
			uc.logger.Info().
				Str("token", req.Token).
				Int64("user_id", req.UserID).
				Msg("Redemption gated, membership required")
			return &dto.RedeemResult{
				Status: dto.RedemptionGateChallenge,
				Gating: uc.gating,
			}, nil
		}
	}

	delivered := uc.deliver(ctx, req, files)

	uc.audit.Command(ctx, req.UserID, "", "retrieve",
		"SUCCESS", fmt.Sprintf("Retrieved %d/%d files for token %s", delivered, len(files), req.Token))

	return &dto.RedeemResult{Status: dto.RedemptionDelivered, Delivered: delivered}, nil
}

// CheckMembership evaluates conjunctive gating: the requester must be a
// member of every configured gating channel. Lookup failures fail closed.
func (uc *UseCase) CheckMembership(ctx context.Context, userID int64) bool {
	for _, gate := range uc.gating {
		member, err := uc.oracle.IsMember(ctx, gate.ID, userID)
		if err != nil {
			uc.logger.Warn().Err(err).
				Str("channel_id", gate.ID).
				Int64("user_id", userID).
				Msg("Membership lookup failed")
			return false
		}
		if !member {
			return false
		}
	}
	return true
}

// deliver sends every record in sequence order and returns the number
// actually delivered. Collected message ids (status messages included) are
// handed to the retraction scheduler when auto-delete is on.
func (uc *UseCase) deliver(ctx context.Context, req *dto.RedeemRequest, files []entities.StoredFile) int {
	autoDelete := uc.cfg.AutoDel.Enabled
	delay := time.Duration(uc.cfg.AutoDel.DelayMinutes) * time.Minute

	var retractable []int

	sendingID, err := uc.sender.SendMessageAndGetID(ctx, req.ChatID,
		fmt.Sprintf("⌛️ Sending %d file(s)...", len(files)))
	if err != nil {
		uc.logger.Error().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to send progress notice")
	}

	if autoDelete {
		warnID, err := uc.sender.SendMessageAndGetID(ctx, req.ChatID,
			fmt.Sprintf("⚠️ Warning! These files will be automatically deleted in %d minutes. Forward them now to keep copies!", uc.cfg.AutoDel.DelayMinutes))
		if err == nil {
			retractable = append(retractable, warnID)
		}
	}

	delivered := 0
	for _, file := range files {
		msgID, err := uc.sender.SendStoredFile(ctx, req.ChatID, file)
		if err != nil {
			// One failed item never aborts the remaining deliveries
			uc.logger.Error().Err(err).
				Str("file_name", file.FileName).
				Str("token", file.BatchToken).
				Msg("Failed to deliver file")
			continue
		}
		delivered++
		retractable = append(retractable, msgID)
	}

	if sendingID != 0 {
		if err := uc.sender.DeleteMessage(ctx, req.ChatID, sendingID); err != nil {
			uc.logger.Debug().Err(err).Msg("Failed to remove progress notice")
		}
	}

	doneID, err := uc.sender.SendMessageAndGetID(ctx, req.ChatID, "✅ All files sent!")
	if err == nil {
		retractable = append(retractable, doneID)
	}

	if autoDelete && len(retractable) > 0 {
		taskID := uc.scheduler.Schedule(req.ChatID, retractable, delay)
		uc.logger.Info().
			Str("task_id", taskID).
			Int64("chat_id", req.ChatID).
			Int("message_count", len(retractable)).
			Dur("delay", delay).
			Msg("Retraction scheduled")
	}

	return delivered
}
