// Command seed-db prepares a PostgreSQL database for the POS server: runs
// the migrations, upserts the menu catalog, and seeds the table grid.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shineway/pos-server/db"
	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/table"
	"github.com/shineway/pos-server/internal/storage/postgres"
)

const upsertMenuItemSQL = `INSERT INTO menu_items (id, name, price, image, category, description)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		image = EXCLUDED.image,
		category = EXCLUDED.category,
		description = EXCLUDED.description`

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to a menu JSON file (defaults to the embedded seed)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if err := seedTables(ctx, pool); err != nil {
		return errors.Wrap(err, "seed tables")
	}

	return nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	data := db.MenuSeed
	if menuFile != "" {
		slog.Info("reading menu file", slog.String("path", menuFile))
		var err error
		if data, err = os.ReadFile(menuFile); err != nil {
			return errors.Wrap(err, "read menu file")
		}
	}

	var items []menu.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for _, item := range items {
		if _, err := pool.Exec(ctx, upsertMenuItemSQL,
			item.ID, item.Name, item.Price, item.Image, item.Category, item.Description,
		); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", item.ID)
		}

		slog.Info("upserted menu item", slog.String("id", item.ID), slog.String("name", item.Name))
	}

	return nil
}

// seedTables writes the default grid. The repository's seed is a no-op
// when tables already exist, so reruns never wipe statuses.
func seedTables(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding table grid")

	registry := table.NewRegistry(postgres.NewTableRepository(pool))
	if err := registry.Initialize(ctx); err != nil {
		return err
	}

	tables, err := registry.GetAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("table grid ready", slog.Int("count", len(tables)))

	return nil
}
