//go:build integration

package tests

import (
	"log"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/cmd/httpserver"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/pkg/configpkg"
	"github.com/mkovtun/minibank/pkg/dbpkg"
)

var (
	server      *httpserver.Server
	redisClient *redis.Client
)

// TestMain calls testMain and passes the returned exit code to os.Exit(). The reason
// that TestMain is basically a wrapper around testMain is because os.Exit() does not
// respect deferred functions, so this configuration allows for a deferred function.
func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

// testMain returns an integer denoting an exit code to be returned and used in
// TestMain. The exit code 0 denotes success, all other codes denote failure.
func testMain(m *testing.M) int {
	config, err := configpkg.Load("../../../configs")
	if err != nil {
		log.Println("cannot load config:", err)
		return 1
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)
	logger := middleware.CreateLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot setup database")
	}

	if err := dbpkg.RunMigrations(config.DBSource); err != nil {
		logger.Fatal().Err(err).Msg("cannot run migrations")
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
	})
	defer redisClient.Close()

	gin.SetMode(gin.ReleaseMode)

	server, err = httpserver.New(conn, redisClient, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}

	return m.Run()
}
