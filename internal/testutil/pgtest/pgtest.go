//go:build e2e

// Package pgtest runs one PostgreSQL container per test binary and hands out
// an isolated database per test.
package pgtest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "test"
	testPassword = "test"
)

var (
	postgresContainerOnce sync.Once
	postgresContainer     testcontainers.Container
	postgresConfig        config.DBConfig
)

// ------------------------------------------------------------
// PostgreSQLコンテナを一度だけ起動／再利用
// ------------------------------------------------------------
func startPostgreSQLContainerOnce(t *testing.T) config.DBConfig {
	t.Helper()
	postgresContainerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=256m", // PostgreSQLデータをRAMに載せてI/O削減
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err, "PostgreSQLコンテナの起動に失敗")
		postgresContainer = c

		host, err := c.Host(ctx)
		require.NoError(t, err)
		port, err := c.MappedPort(ctx, nat.Port("5432/tcp"))
		require.NoError(t, err)

		postgresConfig = config.DBConfig{
			Host:     host,
			Port:     port.Port(),
			User:     testUser,
			Password: testPassword,
			DBName:   "postgres",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		}
	})
	require.NotNil(t, postgresContainer, "PostgreSQLコンテナが起動していません")
	return postgresConfig
}

// PrepareDatabase creates a database for the calling test, applies the schema
// and drops the database when the test ends.
func PrepareDatabase(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	base := startPostgreSQLContainerOnce(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, closeAdmin, err := db.Connect(ctx, base)
	require.NoError(t, err, "管理用DBへの接続に失敗")
	defer closeAdmin()

	dbName := fmt.Sprintf("hotel_%d", time.Now().UnixNano())
	_, err = admin.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err, "テスト用データベースの作成に失敗")

	cfg := base
	cfg.DBName = dbName
	pool, closePool, err := db.Connect(ctx, cfg)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(func() {
		closePool()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		admin, closeAdmin, err := db.Connect(dropCtx, base)
		if err != nil {
			slog.Warn("データベース削除用の接続に失敗しました", "error", err.Error())
			return
		}
		defer closeAdmin()
		if _, err := admin.Exec(dropCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("テスト用データベースの削除に失敗しました", "db", dbName, "error", err.Error())
		}
	})

	require.NoError(t, applyMigrations(ctx, pool), "データベースマイグレーションに失敗")
	return pool, cfg
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	file := filepath.Join("migrations", "001_initial_schema.sql")
	candidates := []string{
		file,
		filepath.Join("..", file),
		filepath.Join("..", "..", file),
		filepath.Join("..", "..", "..", file),
		filepath.Join("..", "..", "..", "..", file),
	}
	var (
		sqlContent []byte
		readErr    error
	)
	for _, cand := range candidates {
		if sqlContent, readErr = os.ReadFile(cand); readErr == nil {
			break
		}
	}
	if readErr != nil {
		return fmt.Errorf("failed to read migration file %s: %w", file, readErr)
	}
	if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", file, err)
	}
	return nil
}

// Truncate empties every table.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE rooms, bookings")
	require.NoError(t, err)
}
