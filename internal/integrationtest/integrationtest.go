// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/cmd/httpserver"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/pkg/configpkg"
	"github.com/mkovtun/minibank/pkg/dbpkg"
)

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)
	redisClient := SetupRedis(t, config.RedisAddress, config.RedisPassword)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, redisClient, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, redisClient, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public' AND table_name != 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up connection with migrated database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	if err := dbpkg.RunMigrations(source); err != nil {
		t.Fatalf("db migration failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupRedis sets up a redis client for testing and closes it afterwards.
func SetupRedis(t *testing.T, address, password string) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	})

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Fatalf("redis cleanup failed. err: %v", err)
		}
	})

	return client
}
