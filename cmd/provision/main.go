// Command provision creates or promotes an administrator.
//
//	provision -email admin@example.com -name Admin -password '...'
//
// The store is chosen the same way as for the server (DB_DRIVER, DB_PATH,
// DATABASE_URL). Server settings such as JWT_SECRET are not read.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/coverwise/internal/config"
	"github.com/mmynk/coverwise/internal/lifecycle"
	"github.com/mmynk/coverwise/internal/storage/backend"
	"github.com/mmynk/coverwise/pkg/logging"
)

func main() {
	name := flag.String("name", "Administrator", "display name, used when creating")
	email := flag.String("email", "", "administrator email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password, used when creating (default $ADMIN_PASSWORD)")
	flag.Parse()

	logger := logging.Setup()
	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), logger, *name, *email, *password); err != nil {
		logger.Error("Provisioning failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, name, email, password string) error {
	cfg, err := config.StoreFromEnv()
	if err != nil {
		return err
	}
	store, err := backend.Open(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	manager := lifecycle.New(store, lifecycle.WithLogger(logger))
	admin, err := manager.BootstrapAdmin(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("administrator %d (%s)\n", admin.ID, admin.Email)
	return nil
}
