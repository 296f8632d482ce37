package buissines

import (
	"context"
	"fmt"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
)

// Broadcast copies the replied-to message to every known user. Per-user
// failures (blocked bot, deleted account) are counted and skipped.
func (uc *UseCase) Broadcast(ctx context.Context, req *dto.BroadcastRequest, progress ProgressFunc) (*dto.BroadcastResult, error) {
	users, err := uc.users.All(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("Failed to load users for broadcast")
		return nil, err
	}

	result := &dto.BroadcastResult{Total: len(users)}

	for _, user := range users {
		err := uc.sender.CopyMessage(ctx, user.UserID, req.FromChatID, req.MessageID)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("user_id", user.UserID).Msg("Broadcast delivery failed")
			result.Failed++
		} else {
			result.Success++
		}

		if progress != nil && (result.Success+result.Failed)%10 == 0 {
			progress(result.Success+result.Failed, result.Total)
		}
	}

	uc.logger.Info().
		Int64("admin_id", req.AdminID).
		Int("total", result.Total).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("Broadcast completed")

	uc.audit.Command(ctx, req.AdminID, "", "broadcast", "SUCCESS",
		fmt.Sprintf("Sent to %d users", result.Success))

	return result, nil
}
