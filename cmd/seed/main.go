package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/internal/service"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*postgres.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgres.NewDBFromConn(sqlx.NewDb(db, "pgx")), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Batch tooling for the dashboard database",
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Usage: "Ingest a directory of spreadsheet files, one dataset per file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory containing .csv/.xlsx files",
						Required: true,
					},
				},
				Action: ingestDir,
			},
			{
				Name:  "create-user",
				Usage: "Create an account that can use the API",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createUser,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestDir(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	datasets := service.NewDatasetService(postgres.NewDatasetRepository(db), nil, nil)

	entries, err := os.ReadDir(c.String("dir"))
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		path := filepath.Join(c.String("dir"), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		summary, err := datasets.Upload(c.Context, entry.Name(), entry.Name(), data)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", entry.Name(), err)
		}

		log.Printf("ingested %s: dataset %d, %d products, %d records, %d days",
			entry.Name(), summary.DatasetID, summary.Products, summary.Records, summary.Days)
		ingested++
	}

	log.Printf("done: %d files ingested", ingested)
	return nil
}

func createUser(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(c.String("password")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := postgres.NewUserRepository(db).CreateUser(c.Context, strings.ToLower(c.String("email")), string(hash))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("created user %d (%s)", user.ID, user.Email)
	return nil
}
