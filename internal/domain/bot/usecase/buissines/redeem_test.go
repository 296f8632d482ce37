package buissines

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/token"
)

const redeemChatID int64 = 777

func seedBatch(env *testEnv, batchToken string, sequences ...int) {
	for _, seq := range sequences {
		env.files.records = append(env.files.records, entities.StoredFile{
			FileName:        fmt.Sprintf("f%d", seq),
			FileID:          fmt.Sprintf("file-%d", seq),
			FileKind:        entities.FileKindDocument,
			SourceChannel:   "-1001234567890",
			MessageSequence: seq,
			BatchToken:      batchToken,
			StoredBy:        testAdminID,
		})
	}
}

func TestRedeemRejectsMalformedTokenWithoutLookup(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: "not-a-token",
	})
	assert.ErrorIs(t, err, boterrors.ErrInvalidToken)
	assert.Zero(t, env.files.findCalls)
	assert.Empty(t, env.sender.sentTexts)
}

func TestRedeemUnknownToken(t *testing.T) {
	env := newTestEnv(nil)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: token.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, dto.RedemptionNotFound, result.Status)
	assert.Empty(t, env.sender.sentFiles)
}

func TestRedeemDeliversInSequenceOrder(t *testing.T) {
	env := newTestEnv(nil)
	env.oracle.member["-100111"] = true
	batch := token.New()
	// seeded out of order on purpose
	seedBatch(env, batch, 30, 10, 20)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)

	assert.Equal(t, dto.RedemptionDelivered, result.Status)
	assert.Equal(t, 3, result.Delivered)

	require.Len(t, env.sender.sentFiles, 3)
	assert.Equal(t, 10, env.sender.sentFiles[0].MessageSequence)
	assert.Equal(t, 20, env.sender.sentFiles[1].MessageSequence)
	assert.Equal(t, 30, env.sender.sentFiles[2].MessageSequence)
}

func TestRedeemGatesNonMembers(t *testing.T) {
	env := newTestEnv(func(cfg *config.Config) {
		cfg.Gating.ChannelIDs = []string{"-100111", "-100222"}
		cfg.Gating.ChannelUsernames = []string{"gateone", "gatetwo"}
	})
	// member of the first gate only
	env.oracle.member["-100111"] = true
	batch := token.New()
	seedBatch(env, batch, 1)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)

	assert.Equal(t, dto.RedemptionGateChallenge, result.Status)
	require.Len(t, result.Gating, 2)
	assert.Equal(t, "gateone", result.Gating[0].Username)
	assert.Equal(t, "gatetwo", result.Gating[1].Username)
	assert.Empty(t, env.sender.sentFiles)
}

func TestRedeemAdminBypassesGate(t *testing.T) {
	env := newTestEnv(nil)
	// admin is not a member of the gating channel
	batch := token.New()
	seedBatch(env, batch, 1)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: testAdminID, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.RedemptionDelivered, result.Status)
	assert.Len(t, env.sender.sentFiles, 1)
}

func TestRedeemMembershipLookupFailsClosed(t *testing.T) {
	env := newTestEnv(nil)
	env.oracle.errFor["-100111"] = fmt.Errorf("telegram unavailable")
	batch := token.New()
	seedBatch(env, batch, 1)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.RedemptionGateChallenge, result.Status)
}

func TestRedeemDeliveryIsBestEffort(t *testing.T) {
	env := newTestEnv(nil)
	env.oracle.member["-100111"] = true
	env.sender.sendFileErrSeq[20] = fmt.Errorf("file expired")
	batch := token.New()
	seedBatch(env, batch, 10, 20, 30)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)

	assert.Equal(t, dto.RedemptionDelivered, result.Status)
	assert.Equal(t, 2, result.Delivered)
	assert.Len(t, env.sender.sentFiles, 2)
}

func TestRedeemSchedulesRetraction(t *testing.T) {
	env := newTestEnv(func(cfg *config.Config) {
		cfg.AutoDel.Enabled = true
		cfg.AutoDel.DelayMinutes = 5
	})
	env.oracle.member["-100111"] = true
	batch := token.New()
	seedBatch(env, batch, 1, 2, 3)

	result, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Delivered)

	require.Len(t, env.scheduler.tasks, 1)
	task := env.scheduler.tasks[0]
	assert.Equal(t, redeemChatID, task.ChatID)
	assert.Equal(t, 5*time.Minute, task.Delay)
	// warning notice, three files, completion notice
	assert.Len(t, task.MessageIDs, 5)

	// the transient progress notice is removed, not retracted
	var warned bool
	for _, sent := range env.sender.sentTexts {
		if strings.Contains(sent.Text, "automatically deleted in 5 minutes") {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.Len(t, env.sender.deleted, 1)
}

func TestRedeemWithoutAutoDeleteSchedulesNothing(t *testing.T) {
	env := newTestEnv(nil)
	env.oracle.member["-100111"] = true
	batch := token.New()
	seedBatch(env, batch, 1)

	_, err := env.uc.Redeem(context.Background(), &dto.RedeemRequest{
		UserID: 1, ChatID: redeemChatID, Token: batch,
	})
	require.NoError(t, err)
	assert.Empty(t, env.scheduler.tasks)
}
