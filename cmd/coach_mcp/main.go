// Package main runs the coach MCP server over stdio (for local Cursor or
// Claude Desktop use). The same MCP server is also mounted on the main service
// at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/coach/history/memstore"
	"github.com/2beens/fitcoach/internal/coach/history/postgres"
	coachmcp "github.com/2beens/fitcoach/internal/coach/mcp"
	"github.com/2beens/fitcoach/internal/coach/meals"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/volume"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/logging"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(logging.GetLevel(cfg.LogLevel))

	secrets, err := config.LoadSecrets(".env")
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var store history.Store
	if cfg.DevMemstore {
		devStore := memstore.New()
		memstore.Seed(devStore, "dev-user", time.Now().In(location), 8, 42)
		store = devStore
	} else {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         secrets.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: false,
		})
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
		store = postgres.NewRepo(dbPool)
	}

	agg := aggregator.New(
		store,
		aggregator.WithReadTimeout(cfg.StoreReadTimeout()),
		aggregator.WithLocation(location),
	)
	dispatcher := dispatch.NewDispatcher(
		agg,
		progression.NewAnalyzer(agg),
		volume.NewAnalyzer(agg),
		meals.NewAllocator(agg),
	)
	server := coachmcp.NewServer(coachmcp.NewCoachService(agg, dispatcher))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Error(err)
	}
}
