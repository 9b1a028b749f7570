package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"edgar_advisor/pkg/core/edgar"
	"edgar_advisor/pkg/core/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// pipelineConfig comes from config/pipeline.yaml; environment
// variables win over the file.
type pipelineConfig struct {
	UserAgent   string `yaml:"user_agent"`
	MaxInFlight int64  `yaml:"max_in_flight"`
	DataDir     string `yaml:"data_dir"`
}

func loadConfig(path string) pipelineConfig {
	var cfg pipelineConfig
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Config file %s not found, using defaults", path)
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("[WARNING] Could not parse %s: %v", path, err)
	}
	return cfg
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	var (
		ticker     = flag.String("ticker", "", "ticker symbol to fetch filings for (required)")
		start      = flag.String("start", "", "start of the filing date range, YYYY-MM-DD (required)")
		end        = flag.String("end", "", "end of the filing date range, YYYY-MM-DD (required)")
		types      = flag.String("types", "10-K,10-Q", "comma-separated report types ("+edgar.ListReportTypes()+")")
		configPath = flag.String("config", "config/pipeline.yaml", "pipeline config file")
		useDB      = flag.Bool("db", false, "store chunks in Postgres (DATABASE_URL) instead of local files")
	)
	flag.Parse()

	if *ticker == "" || *start == "" || *end == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig(*configPath)
	if cfg.UserAgent != "" && os.Getenv("USER_AGENT") == "" {
		os.Setenv("USER_AGENT", cfg.UserAgent)
	}
	if cfg.DataDir != "" && os.Getenv("ADVISOR_DATA_DIR") == "" {
		os.Setenv("ADVISOR_DATA_DIR", cfg.DataDir)
	}
	if cfg.MaxInFlight > 0 {
		edgar.SetGlobalMaxInFlight(cfg.MaxInFlight)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("Bad -start date %q: %v", *start, err)
	}
	endDate, err := time.Parse("2006-01-02", *end)
	if err != nil {
		log.Fatalf("Bad -end date %q: %v", *end, err)
	}

	var reportTypes []edgar.ReportType
	for _, t := range strings.Split(*types, ",") {
		reportTypes = append(reportTypes, edgar.ParseReportType(strings.TrimSpace(t)))
	}

	ctx := context.Background()
	client := edgar.NewHTTPClient()
	query := edgar.NewQuery([]string{*ticker}, startDate, endDate, reportTypes)

	filings, err := edgar.FetchMatchingFilings(ctx, client, query)
	if err != nil {
		log.Fatalf("Fetching filings for %s: %v", *ticker, err)
	}
	fmt.Printf("Fetched %d filing documents for %s\n", len(filings), *ticker)

	var sink edgar.DocumentSink
	if *useDB {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Initializing database: %v", err)
		}
		defer store.Close()
		sink = store.NewDocumentStore(store.GetPool(), "")
	} else {
		sink = store.NewDocumentStore(nil, "")
	}

	failed := 0
	for path, filing := range filings {
		if err := edgar.ExtractAndStore(ctx, client, path, filing.ReportType, sink); err != nil {
			log.Printf("[ERROR] Extracting %s: %v", filing.AccessionNumber, err)
			failed++
		}
	}

	fmt.Printf("Extraction complete: %d succeeded, %d failed\n", len(filings)-failed, failed)
}
