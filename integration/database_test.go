//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTeampulseWithMySQL exercises the cache and history stores against
// a MySQL backend.
func TestTeampulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "teampulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/teampulse?parseTime=true", host, port.Port())

	_ = os.Setenv("TEAMPULSE_CACHE_BACKEND", "mysql")
	_ = os.Setenv("TEAMPULSE_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("TEAMPULSE_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("TEAMPULSE_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TEAMPULSE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_HISTORY_DB_CONNECT") }()

	require.NoError(t, runTeampulseCommand(t, "cache", "clear"))
	require.NoError(t, runTeampulseCommand(t, "cache", "status"))
	require.NoError(t, runTeampulseCommand(t, "history", "migrate"))
	require.NoError(t, runTeampulseCommand(t, "history", "status"))
	require.NoError(t, runTeampulseCommand(t, "history", "clear"))
}

// TestTeampulseWithPostgres exercises the cache and history stores
// against a PostgreSQL backend.
func TestTeampulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	_ = os.Setenv("TEAMPULSE_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("TEAMPULSE_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("TEAMPULSE_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("TEAMPULSE_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TEAMPULSE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEAMPULSE_HISTORY_DB_CONNECT") }()

	require.NoError(t, runTeampulseCommand(t, "cache", "clear"))
	require.NoError(t, runTeampulseCommand(t, "cache", "status"))
	require.NoError(t, runTeampulseCommand(t, "history", "migrate"))
	require.NoError(t, runTeampulseCommand(t, "history", "status"))
	require.NoError(t, runTeampulseCommand(t, "history", "clear"))
}

func runTeampulseCommand(t *testing.T, args ...string) error {
	binPath := getTeampulseBinary()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
