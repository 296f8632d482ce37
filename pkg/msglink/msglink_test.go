package msglink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/shred03/filestore-bot/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    Ref
		wantErr bool
	}{
		{
			name: "private channel link",
			link: "https://t.me/c/1234567890/55",
			want: Ref{Channel: "-1001234567890", Sequence: 55},
		},
		{
			name: "username link",
			link: "https://t.me/my_channel/123",
			want: Ref{Channel: "@my_channel", Sequence: 123},
		},
		{
			name: "trailing slash",
			link: "https://t.me/c/987654321/7/",
			want: Ref{Channel: "-100987654321", Sequence: 7},
		},
		{
			name:    "missing sequence",
			link:    "https://t.me/my_channel",
			wantErr: true,
		},
		{
			name:    "non-numeric sequence",
			link:    "https://t.me/my_channel/abc",
			wantErr: true,
		},
		{
			name:    "zero sequence",
			link:    "https://t.me/c/1234567890/0",
			wantErr: true,
		},
		{
			name:    "negative sequence",
			link:    "https://t.me/my_channel/-5",
			wantErr: true,
		},
		{
			name:    "non-numeric internal id",
			link:    "https://t.me/c/notdigits/5",
			wantErr: true,
		},
		{
			name:    "not a url",
			link:    "::::not a link::::",
			wantErr: true,
		},
		{
			name:    "empty",
			link:    "",
			wantErr: true,
		},
		{
			name:    "bare host",
			link:    "https://t.me/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.link)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRef_NeedsResolution(t *testing.T) {
	assert.True(t, Ref{Channel: "@my_channel"}.NeedsResolution())
	assert.False(t, Ref{Channel: "-1001234567890"}.NeedsResolution())
}
