package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	// Set required environment variables for test
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_IDS", "1")

	// Validate fx dependency graph
	require.NoError(t, fx.ValidateApp(CreateApp()))
}
