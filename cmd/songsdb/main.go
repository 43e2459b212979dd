package main

import (
	"context"
	"fmt"
	"os"

	"star-songs/backend/app/db"
	"star-songs/backend/app/models"
	"star-songs/backend/app/repo"
	"star-songs/backend/config"
	"star-songs/backend/global"
	"star-songs/backend/initialize"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

type runner struct{}

func (runner) open(configPath string) (*gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = cfg
	initialize.SetLogLevel(cfg.Log.Level)
	return db.Connect(db.Config{
		Driver:          cfg.DB.Driver,
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Pass,
		DBName:          cfg.DB.Name,
		Path:            cfg.DB.Path,
		MaxRetries:      cfg.DB.MaxRetries,
		RetryDelay:      cfg.DB.RetryDelay,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
}

func (r runner) migrate(ctx context.Context, cmd *cli.Command) error {
	gdb, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	global.Logger.Info().Msg("schema up to date")
	return nil
}

func (r runner) seed(ctx context.Context, cmd *cli.Command) error {
	gdb, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	artists, songs, err := seedCatalog(gdb)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	global.Logger.Info().Int("artists", artists).Int("songs", songs).Msg("catalog seeded")
	return nil
}

func (r runner) drop(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("drop destroys all data; re-run with --yes to confirm")
	}
	gdb, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := gdb.Migrator().DropTable(&models.RefreshToken{}, &models.User{}, &models.Song{}, &models.Artist{}); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	global.Logger.Info().Msg("tables dropped")
	return nil
}

func (r runner) prune(ctx context.Context, cmd *cli.Command) error {
	gdb, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	n, err := repo.NewRefreshTokenRepository(gdb).DeleteExpired()
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	global.Logger.Info().Int64("deleted", n).Msg("expired refresh tokens pruned")
	return nil
}

func (r runner) status(ctx context.Context, cmd *cli.Command) error {
	gdb, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	tables := []struct {
		name  string
		model any
	}{
		{"Artist", &models.Artist{}},
		{"Song", &models.Song{}},
		{"users", &models.User{}},
		{"refresh_tokens", &models.RefreshToken{}},
	}
	for _, t := range tables {
		if !gdb.Migrator().HasTable(t.model) {
			fmt.Printf("%-15s missing\n", t.name)
			continue
		}
		var count int64
		if err := gdb.Model(t.model).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", t.name, err)
		}
		fmt.Printf("%-15s %d rows\n", t.name, count)
	}
	return nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML config file",
		Value:   "config/config.yaml",
	}
}

func main() {
	r := runner{}
	app := &cli.Command{
		Name:    "songsdb",
		Usage:   "star-songs database lifecycle",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the schema",
				Flags:  []cli.Flag{configFlag()},
				Action: r.migrate,
			},
			{
				Name:   "seed",
				Usage:  "Insert the demonstration star-song catalog (idempotent)",
				Flags:  []cli.Flag{configFlag()},
				Action: r.seed,
			},
			{
				Name:  "drop",
				Usage: "Drop all tables",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "yes", Usage: "Confirm dropping all data"},
				},
				Action: r.drop,
			},
			{
				Name:   "prune",
				Usage:  "Delete expired refresh tokens",
				Flags:  []cli.Flag{configFlag()},
				Action: r.prune,
			},
			{
				Name:   "status",
				Usage:  "Print row counts per table",
				Flags:  []cli.Flag{configFlag()},
				Action: r.status,
			},
		},
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		global.Logger.Fatal().Err(err).Msg("songsdb failed")
	}
}
