// The sseval command scores secondary-structure predictions against
// reference annotations using Q3 accuracy and the SOV metric.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/githubz0r/ss-pred/internal/config"
	"github.com/githubz0r/ss-pred/internal/evaluation"
	"github.com/githubz0r/ss-pred/internal/parser"
	"github.com/githubz0r/ss-pred/internal/server"
)

const (
	version = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse command-line flags
	var (
		refPath     = flag.String("ref", "", "Reference annotation file or URL (FASTA-style, required unless -serve)")
		predPath    = flag.String("pred", "", "Prediction file or URL (required unless -serve)")
		predFormat  = flag.String("format", "fasta", "Prediction file format: 'fasta' or 'horiz'")
		workers     = flag.Int("workers", cfg.Workers, "Number of concurrent scoring workers")
		serve       = flag.Bool("serve", false, "Run an HTTP scoring server instead of batch evaluation")
		port        = flag.Int("port", cfg.Port, "HTTP server port (serve mode)")
		verbose     = flag.Bool("verbose", cfg.Verbose, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sseval - secondary-structure prediction scoring v%s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -ref cb513.fasta -pred model_out.fasta\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -ref chain.fasta -pred chain.horiz -format horiz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -serve -port 8080\n", os.Args[0])
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("sseval v%s\n", version)
		os.Exit(0)
	}

	// Validate flags
	if *port < 1 || *port > 65535 {
		fmt.Fprintf(os.Stderr, "Error: port must be between 1 and 65535\n")
		os.Exit(1)
	}

	if *workers < 1 {
		fmt.Fprintf(os.Stderr, "Error: worker count must be at least 1\n")
		os.Exit(1)
	}

	if !*serve && (*refPath == "" || *predPath == "") {
		fmt.Fprintf(os.Stderr, "Error: -ref and -pred are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if *predFormat != "fasta" && *predFormat != "horiz" {
		fmt.Fprintf(os.Stderr, "Error: -format must be 'fasta' or 'horiz'\n")
		os.Exit(1)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if *serve {
		logger.Info("sseval starting in serve mode", "version", version, "port", *port)
		if err := runServer(*port, logger); err != nil {
			logger.Error("application error", "error", err)
			os.Exit(1)
		}
		logger.Info("sseval stopped")
		return
	}

	if err := runBatch(*refPath, *predPath, *predFormat, *workers, logger); err != nil {
		logger.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServer(port int, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal", "signal", sig)
		cancel()
	}()

	srv := server.New(port, logger)

	logger.Info("scoring endpoint ready",
		"score", fmt.Sprintf("http://localhost:%d/score", port),
		"health", fmt.Sprintf("http://localhost:%d/health", port),
	)

	return srv.Start(ctx)
}

func runBatch(refPath, predPath, predFormat string, workers int, logger *slog.Logger) error {
	logger.Info("reading reference annotations", "source", refPath)
	refs, err := parser.ReadAnnotations(refPath)
	if err != nil {
		return fmt.Errorf("failed to read reference: %w", err)
	}
	logger.Info("parsed reference annotations", "chains", len(refs))

	logger.Info("reading predictions", "source", predPath, "format", predFormat)
	pairs, err := loadPairs(refs, predPath, predFormat)
	if err != nil {
		return err
	}

	evaluator, err := evaluation.New(workers, logger)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	report, err := evaluator.Evaluate(pairs)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	printReport(report)

	if report.Evaluated == 0 {
		return fmt.Errorf("no chains could be scored")
	}
	return nil
}

// loadPairs reads the prediction file and pairs it with the reference
// chains. Horizontal reports carry a single unnamed prediction, so they
// require exactly one reference chain.
func loadPairs(refs []parser.Chain, predPath, predFormat string) ([]evaluation.Pair, error) {
	if predFormat == "horiz" {
		if len(refs) != 1 {
			return nil, fmt.Errorf("horizontal predictions hold one chain but reference has %d", len(refs))
		}
		pred, err := parser.ReadHorizontal(predPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read predictions: %w", err)
		}
		return []evaluation.Pair{{ID: refs[0].ID, Ref: refs[0].Labels, Pred: pred}}, nil
	}

	preds, err := parser.ReadAnnotations(predPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	pairs, err := evaluation.Match(refs, preds)
	if err != nil {
		return nil, fmt.Errorf("failed to pair chains: %w", err)
	}
	return pairs, nil
}

func printReport(report *evaluation.Report) {
	fmt.Printf("run %s\n", report.RunID)
	fmt.Printf("%-12s %8s %8s %8s\n", "chain", "length", "q3", "sov")
	for _, c := range report.Chains {
		if c.Error != "" {
			fmt.Printf("%-12s %8s %8s %8s  %s\n", c.ID, "-", "-", "-", c.Error)
			continue
		}
		fmt.Printf("%-12s %8d %8.4f %8.4f\n", c.ID, c.Length, c.Q3, c.SOV)
	}
	fmt.Printf("\nevaluated %d chains (%d failed)\n", report.Evaluated, report.Failed)
	fmt.Printf("mean Q3:  %.4f\n", report.MeanQ3)
	fmt.Printf("mean SOV: %.4f\n", report.MeanSOV)
}
