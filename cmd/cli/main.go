package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/linkshrink/pkg/config"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/services"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

const usage = "expected 'export', 'import', 'stats' or 'sweep' subcommands"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	sweepCmd := flag.NewFlagSet("sweep", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// keep service logs on stderr so export output stays clean JSON
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repo, err := repository.OpenCollection(cfg.DatabaseURL, cfg.StorageKey, slog.Default())
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer repo.Close()

	service := services.NewLinkService(repo, services.Config{
		BaseURL:           cfg.BaseURL,
		DefaultExpiryDays: cfg.DefaultExpiryDays,
	})
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		err = doExport(ctx, service, os.Stdout)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		err = doImport(ctx, service, *importFile)
	case "stats":
		statsCmd.Parse(os.Args[2:])
		err = doStats(ctx, service, os.Stdout)
	case "sweep":
		sweepCmd.Parse(os.Args[2:])
		err = doSweep(ctx, service)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		repo.Close()
		log.Fatal(err)
	}
}

func doExport(ctx context.Context, service ports.LinkService, w io.Writer) error {
	links, err := service.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(links); err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}
	return nil
}

func doImport(ctx context.Context, service ports.LinkService, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var links []domain.Link
	if err := json.NewDecoder(file).Decode(&links); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	count, err := service.Import(ctx, links)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Printf("Imported %d of %d links", count, len(links))
	return nil
}

func doStats(ctx context.Context, service ports.LinkService, w io.Writer) error {
	stats, err := service.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	_, err = fmt.Fprintf(w, "total: %d\nactive: %d\nexpired: %d\nclicks: %d\n",
		stats.TotalUrls, stats.ActiveUrls, stats.ExpiredUrls, stats.TotalClicks)
	return err
}

func doSweep(ctx context.Context, service ports.LinkService) error {
	expired, err := service.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	log.Printf("Sweep complete, %d expired links", expired)
	return nil
}
