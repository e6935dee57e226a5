//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/matthieukhl/cartstats/internal/config"
	"github.com/matthieukhl/cartstats/internal/database"
)

const (
	mysqlImage    = "mysql:8.4"
	mysqlPort     = "3306/tcp"
	mysqlPassword = "cartstats"
	mysqlDatabase = "cartstats"
)

// SkipIfNoDocker skips the test if Docker is not available
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// NewMySQLDB starts a MySQL container and returns a connection with the
// schema created. The container is terminated when the test ends.
func NewMySQLDB(t *testing.T) *database.DB {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        mysqlImage,
		ExposedPorts: []string{mysqlPort},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": mysqlPassword,
			"MYSQL_DATABASE":      mysqlDatabase,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(mysqlPort),
			wait.ForLog("port: 3306  MySQL Community Server"),
		).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, mysqlPort)
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s?parseTime=true", mysqlPassword, host, port.Port(), mysqlDatabase)
	return open(t, &config.DBConfig{Driver: "mysql", DSN: dsn, MaxOpenConns: 4})
}
