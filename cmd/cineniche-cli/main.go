// Command cineniche-cli runs maintenance tasks against the CineNiche
// database: migrations, catalog imports and administrator provisioning.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/config"
	"github.com/cineniche/cineniche/internal/core"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/upstream"
	"github.com/cineniche/cineniche/internal/validation"
)

const usage = `Usage: cineniche-cli <command> [flags]

Commands:
  migrate        apply database migrations
  import-pg      copy the catalog from a legacy PostgreSQL database
  sync           replace the catalog with an upstream /MovieTitles feed
  create-admin   create or reset an administrator account
`

func main() {
	log.SetOutput(os.Stdout)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "migrate":
		err = runMigrate(cfg)
	case "import-pg":
		err = runImportPG(cfg, args)
	case "sync":
		err = runSync(cfg, args)
	case "create-admin":
		err = runCreateAdmin(cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

// runMigrate opens the database, which applies every pending migration.
func runMigrate(cfg *config.Config) error {
	app, err := core.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	fmt.Println("Database is up to date.")
	return nil
}

func runImportPG(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import-pg", flag.ExitOnError)
	dsn := fs.String("dsn", os.Getenv("CINENICHE_LEGACY_DSN"), "PostgreSQL connection string")
	table := fs.String("table", upstream.DefaultLegacyTable, "table holding the titles")
	fs.Parse(args)
	if *dsn == "" {
		return fmt.Errorf("a -dsn (or CINENICHE_LEGACY_DSN) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	importer, err := upstream.NewPGImporter(ctx, *dsn, *table)
	if err != nil {
		return err
	}
	defer importer.Close()
	return replaceCatalog(ctx, cfg, importer)
}

func runSync(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	url := fs.String("url", cfg.Catalog.UpstreamURL, "base URL serving /MovieTitles")
	timeout := fs.Duration("timeout", time.Minute, "request timeout")
	fs.Parse(args)
	if *url == "" {
		return fmt.Errorf("a -url (or catalog.upstream_url) is required")
	}

	fetcher := upstream.NewFetcher(*url, *timeout)
	defer fetcher.Close()
	return replaceCatalog(context.Background(), cfg, fetcher)
}

func replaceCatalog(ctx context.Context, cfg *config.Config, source upstream.Source) error {
	app, err := core.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	items, err := source.FetchCatalog(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d titles", len(items))

	result, err := app.Store().ReplaceCatalog(items)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog updated: %d added, %d updated, %d removed.\n", result.Added, result.Updated, result.Removed)
	return nil
}

func runCreateAdmin(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", cfg.Admin.Email, "administrator email")
	password := fs.String("password", "", "password (generated when empty)")
	fs.Parse(args)

	if *password == "" {
		generated, err := auth.GeneratePassword(16)
		if err != nil {
			return err
		}
		*password = generated
	} else if problem := validation.PasswordProblem(*password); problem != "" {
		return fmt.Errorf("%s", problem)
	}

	app, err := core.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return err
	}
	st := app.Store()
	if user, err := st.GetUserByEmail(*email); err == nil {
		if err := st.UpdateUser(user.ID, user.Email, models.RoleAdministrator); err != nil {
			return err
		}
		if err := st.UpdateUserPassword(user.ID, hash); err != nil {
			return err
		}
		fmt.Printf("Reset administrator %s. Password: %s\n", user.Email, *password)
		return nil
	}
	if _, err := st.CreateUser(*email, hash, models.RoleAdministrator); err != nil {
		return err
	}
	fmt.Printf("Created administrator %s. Password: %s\n", *email, *password)
	return nil
}
