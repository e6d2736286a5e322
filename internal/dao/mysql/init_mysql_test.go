package mysql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/config"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "mysql", "postgres", "sqlite"} {
		t.Run("driver "+driver, func(t *testing.T) {
			d, err := Dialector(config.DatabaseConfig{Driver: driver, Host: "localhost", Port: 3306, DatabaseName: "chat"})
			require.NoError(t, err)
			assert.NotNil(t, d)
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
		assert.Error(t, err)
	})
}

func TestInitSqlite(t *testing.T) {
	conf := config.DatabaseConfig{Driver: "sqlite", Dsn: filepath.Join(t.TempDir(), "chat.db")}
	repos, err := Init(conf)
	require.NoError(t, err)
	assert.NoError(t, repos.Ping())
}
