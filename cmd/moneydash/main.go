package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/moneydash/internal/config"
	"github.com/jask/moneydash/internal/database"
	"github.com/jask/moneydash/internal/logging"
	"github.com/jask/moneydash/internal/service"
	"github.com/jask/moneydash/internal/tui"
)

func main() {
	reset := flag.Bool("reset", false, "delete all transactions and methods, then exit")
	importPath := flag.String("import", "", "import a bank CSV export (date, amount, description[, tags]) and exit")
	method := flag.String("method", "", "transaction method the imported rows belong to")
	writeConfig := flag.Bool("write-config", false, "write the effective configuration to the config file and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *writeConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
		fmt.Println("config written")
		return
	}

	logger, closer, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closer.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if *reset {
		m := &service.MaintenanceService{DB: db, Methods: cfg.Defaults.Methods}
		if err := m.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		logger.Info("database reset", "path", cfg.Database.Path)
		fmt.Println("database reset")
		return
	}

	if err := database.SeedMethods(ctx, db, cfg.Defaults.Methods); err != nil {
		log.Fatalf("seed methods: %v", err)
	}

	ledger, err := service.NewLedger(ctx, db, logger)
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}

	if *importPath != "" {
		if err := runImport(ctx, ledger, *importPath, *method); err != nil {
			log.Fatalf("import: %v", err)
		}
		return
	}

	logger.Info("starting", "db", cfg.Database.Path)
	p := tea.NewProgram(tui.New(ctx, ledger, cfg.UI, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Printf("error: %v\n", err)
	}
}

func runImport(ctx context.Context, ledger *service.Ledger, path, method string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	res, err := ledger.ImportCSV(ctx, f, method)
	if err != nil {
		return err
	}
	fmt.Printf("%d imported, %d skipped, %d errors\n", res.Imported, res.Skipped, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Println("  " + e.Error())
	}
	return nil
}
