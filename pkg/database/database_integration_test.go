//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/model"
)

func TestInitDB_Postgres(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("blog"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:       "postgres",
		DSN:          dsn,
		MaxOpenConns: 5,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		AutoMigrate:  true,
	}}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(ctx, db))

	u := model.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: "x", Role: model.RoleAuthor}
	require.NoError(t, db.Create(&u).Error)
	p := model.Post{ID: "p1", AuthorID: u.ID, Title: "Hello", Slug: "hello", Status: model.PostStatusDraft}
	require.NoError(t, db.Create(&p).Error)

	dup := model.Post{ID: "p2", AuthorID: u.ID, Title: "Hello", Slug: "hello", Status: model.PostStatusDraft}
	require.Error(t, db.Create(&dup).Error, "slug must be unique")
}
