package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cartaoclaro/fatura-parser/internal/api"
	"github.com/cartaoclaro/fatura-parser/internal/config"
	"github.com/cartaoclaro/fatura-parser/internal/parser"
	"github.com/cartaoclaro/fatura-parser/internal/writer"
)

const version = "1.0.0"

func main() {
	bankFlag := flag.String("bank", "itau", "Bank parser to use (falls back to generic when it yields no data)")
	formatFlag := flag.String("format", "json", "Output format: json or csv")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format extension)")
	configFlag := flag.String("config", "", "Path to config.yaml")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API server instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Fatura Parser: Brazilian credit-card statement PDF extractor

Extracts cardholder, dates, totals and per-card transaction lists from
credit-card statement PDFs into structured JSON or CSV.

Usage:
  fatura-parser [flags] <fatura.pdf> [fatura2.pdf ...]
  fatura-parser -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Parse with the Itaú parser, JSON written next to the input
  fatura-parser -bank=itau fatura.pdf

  # CSV export
  fatura-parser -format=csv -output=lancamentos.csv fatura.pdf

  # HTTP server (POST /api/parse)
  fatura-parser -serve

Registered banks: %s (unknown names use the generic parser)
`, strings.Join(parser.Banks(), ", "))
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("fatura-parser v%s\n", version)
		os.Exit(0)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("config: %v\n", err)
	}

	if *serveFlag {
		serve(cfg)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, *bankFlag, *formatFlag, *outputFlag, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	app := api.NewApp(cfg.Server.BodyLimitMB, cfg.ParserConfig(), logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func processFile(inputPath, bank, format, outputPath string, cfg *config.Config) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Processing: %s\n", inputPath)

	p := parser.ForBank(bank, cfg.ParserConfig())
	result, err := p.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// Bank parser found too little; same fallback the API applies.
	if result.InsufficientData() && p.Name() != "generic" {
		generic := parser.NewGeneric(cfg.ParserConfig())
		if retry, retryErr := generic.Parse(data); retryErr == nil && !retry.InsufficientData() {
			fmt.Printf("  %s parser yielded no data, fell back to generic\n", p.Name())
			result = retry
			p = generic
		}
	}

	if result.InsufficientData() {
		return fmt.Errorf("insufficient data: fewer transactions than the configured minimum were detected")
	}
	result.SetSource(inputPath)

	stmt := result.Statement
	fmt.Printf("  Parser: %s\n", p.Name())
	fmt.Printf("  Found %d transaction(s) across %d card(s)\n", stmt.TransactionCount(), len(stmt.Cards))
	if stmt.CardholderName != "" {
		fmt.Printf("  Cardholder: %s\n", stmt.CardholderName)
	}
	if stmt.DueDate != "" {
		fmt.Printf("  Due date: %s\n", stmt.DueDate)
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + format
	}

	switch format {
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(outPath, stmt); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (use json or csv)", format)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
