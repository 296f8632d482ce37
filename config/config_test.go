package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token-123")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "filestore", cfg.Mongo.Database)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "8000", cfg.Service.Port)
	assert.False(t, cfg.AutoDel.Enabled)
	assert.Equal(t, 5, cfg.AutoDel.DelayMinutes)
}

func TestLoad_MissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_MissingMongoURI(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token-123")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoad_Lists(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_IDS", "123, 456,789")
	t.Setenv("DATABASE_FILE_CHANNELS", "-1001111111111, -1002222222222")
	t.Setenv("FORCE_CHANNEL_IDS", "-1003333333333")
	t.Setenv("FORCE_CHANNEL_USERNAMES", "some_channel")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{123, 456, 789}, cfg.Telegram.AdminIDs)
	assert.Equal(t, []string{"-1001111111111", "-1002222222222"}, cfg.Storage.AllowedChannels)
	assert.True(t, cfg.Telegram.IsAdmin(456))
	assert.False(t, cfg.Telegram.IsAdmin(999))
}

func TestLoad_BadAdminID(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_IDS", "123,abc")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MismatchedGatingLists(t *testing.T) {
	setRequired(t)
	t.Setenv("FORCE_CHANNEL_IDS", "-1001,-1002")
	t.Setenv("FORCE_CHANNEL_USERNAMES", "only_one")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_AutoDeleteValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTO_DELETE_FILES", "true")
	t.Setenv("AUTO_DELETE_TIME", "-3")

	_, err := Load()
	require.Error(t, err)
}
