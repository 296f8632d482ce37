package buissines

import (
	"context"
	"sync"
	"time"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/msglink"
	"github.com/shred03/filestore-bot/pkg/token"
)

const (
	// maxRangeSpan bounds worst-case fan-out of a range ingestion
	maxRangeSpan = 100
	// fetchBatchWidth caps simultaneous in-flight fetches
	fetchBatchWidth = 10
)

// ProgressFunc receives incremental range-ingestion progress after every
// sub-batch.
type ProgressFunc func(done, total int)

// IngestOne registers the single message behind a permalink and returns a
// fresh retrieval token for it.
func (uc *UseCase) IngestOne(ctx context.Context, req *dto.IngestOneRequest) (*dto.IngestResult, error) {
	ref, err := msglink.Parse(req.Link)
	if err != nil {
		return nil, err
	}

	channelID, err := uc.resolveAllowedChannel(ctx, ref)
	if err != nil {
		return nil, err
	}

	media, err := uc.sender.FetchChannelMessage(ctx, req.ChatID, channelID, ref.Sequence)
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("channel_id", channelID).
			Int("sequence", ref.Sequence).
			Msg("Message fetch failed")
		return nil, boterrors.ErrMessageUnavailable
	}
	if media == nil {
		return nil, boterrors.ErrNoSupportedMedia
	}

	batchToken := token.New()
	file := newStoredFile(*media, batchToken, channelID, ref.Sequence, req.AdminID)

	if err := uc.files.Insert(ctx, &file); err != nil {
		uc.logger.Error().Err(err).Str("token", batchToken).Msg("Failed to persist file record")
		return nil, err
	}

	uc.logger.Info().
		Int64("admin_id", req.AdminID).
		Str("token", batchToken).
		Str("channel_id", channelID).
		Int("sequence", ref.Sequence).
		Str("file_kind", string(media.Kind)).
		Msg("File stored")

	return &dto.IngestResult{Token: batchToken, Stored: 1, Total: 1}, nil
}

// IngestRange registers every message in an inclusive permalink range under
// one shared token. Individual message failures are counted as skipped and
// never abort the batch; progress is reported after each sub-batch.
func (uc *UseCase) IngestRange(ctx context.Context, req *dto.IngestRangeRequest, progress ProgressFunc) (*dto.IngestResult, error) {
	startRef, err := msglink.Parse(req.StartLink)
	if err != nil {
		return nil, err
	}
	endRef, err := msglink.Parse(req.EndLink)
	if err != nil {
		return nil, err
	}

	startChannel, err := uc.resolveChannel(ctx, startRef)
	if err != nil {
		return nil, err
	}
	endChannel, err := uc.resolveChannel(ctx, endRef)
	if err != nil {
		return nil, err
	}
	if startChannel != endChannel {
		return nil, boterrors.ErrChannelMismatch
	}
	if !uc.isAllowedChannel(startChannel) {
		return nil, boterrors.ErrChannelNotAllowed
	}

	// Range validation happens before any fetch is issued
	if endRef.Sequence < startRef.Sequence {
		return nil, boterrors.ErrInvalidRange
	}
	if endRef.Sequence-startRef.Sequence > maxRangeSpan {
		return nil, boterrors.ErrRangeTooLarge
	}

	total := endRef.Sequence - startRef.Sequence + 1
	batchToken := token.New()

	var (
		mu      sync.Mutex
		buffer  []entities.StoredFile
		skipped int
	)

	for batchStart := startRef.Sequence; batchStart <= endRef.Sequence; batchStart += fetchBatchWidth {
		batchEnd := batchStart + fetchBatchWidth - 1
		if batchEnd > endRef.Sequence {
			batchEnd = endRef.Sequence
		}

		var wg sync.WaitGroup
		for seq := batchStart; seq <= batchEnd; seq++ {
			wg.Add(1)
			go func(seq int) {
				defer wg.Done()

				media, err := uc.sender.FetchChannelMessage(ctx, req.ChatID, startChannel, seq)
				if err != nil || media == nil {
					// Deleted, inaccessible or unsupported messages are
					// counted, not escalated
					mu.Lock()
					skipped++
					mu.Unlock()
					uc.logger.Debug().
						Str("channel_id", startChannel).
						Int("sequence", seq).
						Msg("Message skipped")
					return
				}

				file := newStoredFile(*media, batchToken, startChannel, seq, req.AdminID)
				mu.Lock()
				buffer = append(buffer, file)
				mu.Unlock()
			}(seq)
		}
		wg.Wait()

		if progress != nil {
			progress(batchEnd-startRef.Sequence+1, total)
		}
	}

	if len(buffer) > 0 {
		if err := uc.files.InsertMany(ctx, buffer); err != nil {
			uc.logger.Error().Err(err).Str("token", batchToken).Msg("Bulk persist failed")
			return nil, err
		}
	}

	uc.logger.Info().
		Int64("admin_id", req.AdminID).
		Str("token", batchToken).
		Str("channel_id", startChannel).
		Int("stored", len(buffer)).
		Int("skipped", skipped).
		Msg("Range ingestion completed")

	return &dto.IngestResult{
		Token:   batchToken,
		Stored:  len(buffer),
		Skipped: skipped,
		Total:   total,
	}, nil
}

func newStoredFile(media entities.MediaDescriptor, batchToken, channelID string, sequence int, adminID int64) entities.StoredFile {
	return entities.StoredFile{
		FileName:        media.FileName,
		FileID:          media.FileID,
		FileKind:        media.Kind,
		SourceChannel:   channelID,
		MessageSequence: sequence,
		BatchToken:      batchToken,
		StoredBy:        adminID,
		OriginalCaption: media.Caption,
		CreatedAt:       time.Now(),
	}
}
