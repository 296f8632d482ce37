// Package msglink parses Telegram message permalinks
package msglink

import (
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/shred03/filestore-bot/pkg/errors"
)

// privateChannelPrefix reconstructs the canonical negative-range chat id
// Telegram uses for private supergroups and channels.
const privateChannelPrefix = "-100"

// Ref identifies one message inside a channel. Channel is either a
// canonical numeric id (private-channel links) or an "@username" that
// still needs resolution.
type Ref struct {
	Channel  string
	Sequence int
}

// NeedsResolution reports whether Channel is a username reference.
func (r Ref) NeedsResolution() bool {
	return strings.HasPrefix(r.Channel, "@")
}

// ErrInvalidLink is returned for anything that is not a well-formed
// t.me message permalink.
var ErrInvalidLink = pkgerrors.NewValidationError("invalid message link format")

// Parse extracts the channel reference and message sequence number from a
// message permalink.
//
// Supported forms:
//
//	https://t.me/c/1234567890/55  -> {-1001234567890, 55}
//	https://t.me/my_channel/55    -> {@my_channel, 55}
func Parse(raw string) (Ref, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Ref{}, ErrInvalidLink
	}

	parts := splitPath(u.Path)

	// Private channel form: /c/<internalID>/<seq>
	if len(parts) >= 3 && parts[0] == "c" {
		if !isDigits(parts[1]) {
			return Ref{}, ErrInvalidLink
		}
		seq, err := parseSequence(parts[2])
		if err != nil {
			return Ref{}, err
		}
		return Ref{Channel: privateChannelPrefix + parts[1], Sequence: seq}, nil
	}

	// Public channel form: /<username>/<seq>
	if len(parts) >= 2 {
		seq, err := parseSequence(parts[1])
		if err != nil {
			return Ref{}, err
		}
		return Ref{Channel: "@" + parts[0], Sequence: seq}, nil
	}

	return Ref{}, ErrInvalidLink
}

func parseSequence(s string) (int, error) {
	seq, err := strconv.Atoi(s)
	if err != nil || seq <= 0 {
		return 0, ErrInvalidLink
	}
	return seq, nil
}

func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
