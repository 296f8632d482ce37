// Package dto contains request/response shapes for bot use cases
package dto

import "github.com/shred03/filestore-bot/internal/domain/bot/entities"

// StartRequest carries /start invocation data
type StartRequest struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	// Payload is the raw deep-link argument, empty for a bare /start
	Payload string
}

// IngestOneRequest registers a single message link
type IngestOneRequest struct {
	AdminID int64
	// ChatID is the admin conversation used as the copy-and-discard scratch chat
	ChatID int64
	Link   string
}

// IngestRangeRequest registers an inclusive message range
type IngestRangeRequest struct {
	AdminID   int64
	ChatID    int64
	StartLink string
	EndLink   string
}

// IngestResult reports the outcome of an ingestion
type IngestResult struct {
	Token   string
	Stored  int
	Skipped int
	Total   int
}

// RedeemRequest redeems a retrieval token
type RedeemRequest struct {
	UserID int64
	ChatID int64
	Token  string
}

// RedemptionStatus is the branch a redemption took
type RedemptionStatus string

const (
	RedemptionDelivered     RedemptionStatus = "delivered"
	RedemptionNotFound      RedemptionStatus = "not_found"
	RedemptionGateChallenge RedemptionStatus = "gate_challenge"
)

// RedeemResult reports a redemption outcome. For a gate challenge it
// carries every channel the requester still must join.
type RedeemResult struct {
	Status    RedemptionStatus
	Delivered int
	Gating    []entities.GatingChannel
}

// BroadcastRequest fans a replied-to message out to all known users
type BroadcastRequest struct {
	AdminID    int64
	FromChatID int64
	MessageID  int
}

// BroadcastResult reports fan-out counts
type BroadcastResult struct {
	Total   int
	Success int
	Failed  int
}

// StatsResult is the /stats report payload
type StatsResult struct {
	TotalUsers    int64
	NewUsersToday int64
	TotalFiles    int64
	FilesToday    int64
	TotalAdmins   int
	UptimeSeconds int64
	Goroutines    int
	HeapAllocMB   uint64
}
