// Package tests holds helpers shared by tests that need real infrastructure.
package tests

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DIMO-Network/line-webhook-relay/internal/db/migrations"
	"github.com/DIMO-Network/shared/pkg/db"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestContainer is a migrated postgres instance shared by every test in a package.
type TestContainer struct {
	container testcontainers.Container
	DB        *sql.DB
	Settings  db.Settings
	once      sync.Once
	users     atomic.Int64
}

var shared TestContainer

// SetupTestContainer starts postgres on first use and terminates it after
// the last test that asked for it has finished.
func SetupTestContainer(t *testing.T) *TestContainer {
	t.Helper()
	shared.once.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:15",
			postgres.WithDatabase(migrations.SchemaName),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		shared.container = container

		host, err := container.Host(ctx)
		require.NoError(t, err)
		port, err := container.MappedPort(ctx, "5432")
		require.NoError(t, err)

		shared.Settings = db.Settings{
			Host:     host,
			Port:     port.Port(),
			User:     "postgres",
			Password: "postgres",
			Name:     migrations.SchemaName,
			SSLMode:  "disable",
		}
		require.NoError(t, migrations.RunGoose(ctx, []string{"up"}, shared.Settings))

		shared.DB, err = sql.Open("postgres", shared.Settings.BuildConnectionString(true))
		require.NoError(t, err)
	})

	shared.TeardownIfLastTest(t)
	return &shared
}

// TeardownIfLastTest registers t as a user of the container. The container
// is terminated once every registered test has finished.
func (c *TestContainer) TeardownIfLastTest(t *testing.T) {
	c.users.Add(1)
	t.Cleanup(func() {
		if c.users.Add(-1) != 0 {
			return
		}
		_ = c.DB.Close()
		_ = c.container.Terminate(context.Background())
		c.once = sync.Once{}
	})
}
