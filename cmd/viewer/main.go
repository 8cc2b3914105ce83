package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"toloka-kit/domain/model"
	"toloka-kit/internal"
	"toloka-kit/resources"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while another process holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// 3. Serve until interrupted
	stats := func() map[string]any {
		return map[string]any{
			"Status": "Viewer Mode (Read-Only)",
			"Time":   time.Now().Format(time.RFC822),
			"Kinds":  resources.KindNames(),
		}
	}
	server := internal.StartDebugServer(db, config.DebugPort, "/inspect", ResourceMapper, stats)
	log.Info(fmt.Sprintf("Viewer started at http://localhost:%d/inspect", config.DebugPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}

// ResourceMapper decodes a stored resource to show its concrete model.
func ResourceMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	kind, ok := resources.LookupKind(row.Kind)
	if !ok {
		return row
	}
	mapping, err := model.DecodeMapping(kind.Schema, val)
	if err != nil {
		row.Detail = err.Error()
		return row
	}
	resource, err := kind.Parse(mapping)
	if err != nil {
		row.Detail = err.Error()
		return row
	}
	o := resource.Model()
	row.Model = o.Schema().Name()
	row.Detail = o.String()
	_, row.Unresolved = o.UnresolvedVariant()
	return row
}
