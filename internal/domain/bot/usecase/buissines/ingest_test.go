package buissines

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/token"
)

func docMedia(name string) *entities.MediaDescriptor {
	return &entities.MediaDescriptor{
		FileName: name,
		FileID:   "file-" + name,
		Kind:     entities.FileKindDocument,
		Caption:  "caption " + name,
	}
}

func TestIngestOneStoresFile(t *testing.T) {
	env := newTestEnv(nil)
	env.sender.media[55] = docMedia("a.mkv")

	result, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID,
		ChatID:  10,
		Link:    "https://t.me/c/1234567890/55",
	})
	require.NoError(t, err)

	assert.True(t, token.Valid(result.Token))
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 1, result.Total)

	require.Len(t, env.files.records, 1)
	record := env.files.records[0]
	assert.Equal(t, "a.mkv", record.FileName)
	assert.Equal(t, "file-a.mkv", record.FileID)
	assert.Equal(t, entities.FileKindDocument, record.FileKind)
	assert.Equal(t, "-1001234567890", record.SourceChannel)
	assert.Equal(t, 55, record.MessageSequence)
	assert.Equal(t, result.Token, record.BatchToken)
	assert.Equal(t, testAdminID, record.StoredBy)
	assert.Equal(t, "caption a.mkv", record.OriginalCaption)
}

func TestIngestOneResolvesUsernameLinks(t *testing.T) {
	env := newTestEnv(nil)
	env.sender.resolved["@mychannel"] = "-1001234567890"
	env.sender.media[7] = docMedia("b.zip")

	result, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID,
		ChatID:  10,
		Link:    "https://t.me/mychannel/7",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, "-1001234567890", env.files.records[0].SourceChannel)
}

func TestIngestOneRejectsDisallowedChannel(t *testing.T) {
	env := newTestEnv(nil)
	env.sender.media[5] = docMedia("x")

	_, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID,
		ChatID:  10,
		Link:    "https://t.me/c/9999999999/5",
	})
	assert.ErrorIs(t, err, boterrors.ErrChannelNotAllowed)
	assert.Zero(t, env.sender.fetchCalls)
	assert.Empty(t, env.files.records)
}

func TestIngestOneNoSupportedMedia(t *testing.T) {
	env := newTestEnv(nil)
	// no media registered for sequence 55: fetch returns nil descriptor

	_, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID,
		ChatID:  10,
		Link:    "https://t.me/c/1234567890/55",
	})
	assert.ErrorIs(t, err, boterrors.ErrNoSupportedMedia)
	assert.Empty(t, env.files.records)
}

func TestIngestOneProducesDistinctTokens(t *testing.T) {
	env := newTestEnv(nil)
	env.sender.media[1] = docMedia("one")
	env.sender.media[2] = docMedia("two")

	first, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID, ChatID: 10, Link: "https://t.me/c/1234567890/1",
	})
	require.NoError(t, err)
	second, err := env.uc.IngestOne(context.Background(), &dto.IngestOneRequest{
		AdminID: testAdminID, ChatID: 10, Link: "https://t.me/c/1234567890/2",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestIngestRangeSharesOneToken(t *testing.T) {
	env := newTestEnv(nil)
	for seq := 10; seq <= 25; seq++ {
		if seq%5 == 0 {
			env.sender.fetchErr[seq] = fmt.Errorf("message %d deleted", seq)
			continue
		}
		env.sender.media[seq] = docMedia(fmt.Sprintf("f%d", seq))
	}

	var lastDone, lastTotal int
	result, err := env.uc.IngestRange(context.Background(), &dto.IngestRangeRequest{
		AdminID:   testAdminID,
		ChatID:    10,
		StartLink: "https://t.me/c/1234567890/10",
		EndLink:   "https://t.me/c/1234567890/25",
	}, func(done, total int) { lastDone, lastTotal = done, total })
	require.NoError(t, err)

	assert.Equal(t, 16, result.Total)
	assert.Equal(t, result.Total, result.Stored+result.Skipped)
	assert.Equal(t, 4, result.Skipped)
	assert.Equal(t, 16, lastDone)
	assert.Equal(t, 16, lastTotal)

	files, err := env.files.FindByToken(context.Background(), result.Token)
	require.NoError(t, err)
	require.Len(t, files, 12)
	for _, f := range files {
		assert.Equal(t, result.Token, f.BatchToken)
	}
}

func TestIngestRangeChannelMismatch(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.uc.IngestRange(context.Background(), &dto.IngestRangeRequest{
		AdminID:   testAdminID,
		ChatID:    10,
		StartLink: "https://t.me/c/1234567890/10",
		EndLink:   "https://t.me/c/5555555555/12",
	}, nil)
	assert.ErrorIs(t, err, boterrors.ErrChannelMismatch)
	assert.Zero(t, env.sender.fetchCalls)
}

func TestIngestRangeValidatedBeforeAnyFetch(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.uc.IngestRange(context.Background(), &dto.IngestRangeRequest{
		AdminID:   testAdminID,
		ChatID:    10,
		StartLink: "https://t.me/c/1234567890/1",
		EndLink:   "https://t.me/c/1234567890/102",
	}, nil)
	assert.ErrorIs(t, err, boterrors.ErrRangeTooLarge)
	assert.Zero(t, env.sender.fetchCalls)

	_, err = env.uc.IngestRange(context.Background(), &dto.IngestRangeRequest{
		AdminID:   testAdminID,
		ChatID:    10,
		StartLink: "https://t.me/c/1234567890/20",
		EndLink:   "https://t.me/c/1234567890/10",
	}, nil)
	assert.ErrorIs(t, err, boterrors.ErrInvalidRange)
	assert.Zero(t, env.sender.fetchCalls)
}

func TestIngestRangeSingleDeletedMessage(t *testing.T) {
	env := newTestEnv(nil)
	env.sender.fetchErr[42] = fmt.Errorf("message 42 deleted")

	result, err := env.uc.IngestRange(context.Background(), &dto.IngestRangeRequest{
		AdminID:   testAdminID,
		ChatID:    10,
		StartLink: "https://t.me/c/1234567890/42",
		EndLink:   "https://t.me/c/1234567890/42",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stored)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Total)
	assert.Empty(t, env.files.records)
}
