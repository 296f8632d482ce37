package buissines

import (
	"context"
	"runtime"
	"time"

	"github.com/shred03/filestore-bot/internal/domain/bot/dto"
)

// Stats gathers the /stats report counters.
func (uc *UseCase) Stats(ctx context.Context) (*dto.StatsResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalUsers, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	newUsersToday, err := uc.users.CountSince(ctx, todayStart)
	if err != nil {
		return nil, err
	}
	totalFiles, err := uc.files.Count(ctx)
	if err != nil {
		return nil, err
	}
	filesToday, err := uc.files.CountSince(ctx, todayStart)
	if err != nil {
		return nil, err
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &dto.StatsResult{
		TotalUsers:    totalUsers,
		NewUsersToday: newUsersToday,
		TotalFiles:    totalFiles,
		FilesToday:    filesToday,
		TotalAdmins:   len(uc.cfg.Telegram.AdminIDs),
		UptimeSeconds: int64(time.Since(uc.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   mem.HeapAlloc / 1024 / 1024,
	}, nil
}
