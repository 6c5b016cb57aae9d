// Command contraidos-analyzer analyzes a contraídos spreadsheet from the
// command line, prints the text report and writes the JSON and Excel results
// next to it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/contraidos"
	"github.com/AALVAREZG/contraidos-processor/internal/dataprocessing"
	"github.com/AALVAREZG/contraidos-processor/internal/exporter"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	"github.com/AALVAREZG/contraidos-processor/internal/validation"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts"
)

type options struct {
	file             string
	outDir           string
	cancellationRule bool
	jsonOnly         bool
	logLevel         string
	version          bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("contraidos-analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "contraídos spreadsheet to analyze (.xlsx)")
	fs.StringVar(&opts.outDir, "out", "", "output directory (defaults to the input file directory)")
	fs.BoolVar(&opts.cancellationRule, "cancellation-rule", false, "flag invalid M;P operations without a matching cancellation")
	fs.BoolVar(&opts.jsonOnly, "json-only", false, "write only the JSON result")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.version {
		return opts, nil
	}
	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}
	if opts.file == "" {
		fs.Usage()
		return opts, errors.New("an input file is required")
	}
	if opts.outDir == "" {
		opts.outDir = filepath.Dir(opts.file)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	logger := infrastructure.NewLogger(stderr, "text", opts.logLevel)
	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "analyzing file", slog.String("file", opts.file))

	files := validation.NewFileValidator(logger)
	if err := files.ValidateSpreadsheet(opts.file, config.DefaultAllowedExtensions); err != nil {
		return err
	}

	parser := dataprocessing.NewContraidosExcelParser(logger)
	parsed, err := parser.Parse(ctx, opts.file)
	if err != nil {
		return err
	}

	analyzer := contraidos.NewAnalyzer(parsed.Table, analysis.Options{CheckCancellations: opts.cancellationRule}, logger)
	result := analyzer.Result(ctx)
	fmt.Fprintln(stdout, contraidos.GenerateReport(result))
	if !result.Success {
		return errors.New(result.Error)
	}

	if err := files.ValidateOutputDirectory(opts.outDir); err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(opts.file), filepath.Ext(opts.file))
	jsonPath := filepath.Join(opts.outDir, stem+"_analysis.json")
	excelPath := filepath.Join(opts.outDir, stem+"_analysis.xlsx")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		full, err := analyzer.ExportFullResults(gctx)
		if err != nil {
			return err
		}
		return exporter.WriteJSONFile(jsonPath, full)
	})
	if !opts.jsonOnly {
		g.Go(func() error {
			return exporter.NewExcelExporter(logger).WriteContraidosWorkbook(excelPath, result, parsed.Table)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nJSON: %s\n", jsonPath)
	if !opts.jsonOnly {
		fmt.Fprintf(stdout, "Excel: %s\n", excelPath)
	}

	logger.Info("analysis written",
		slog.String("file", opts.file),
		slog.String("json", jsonPath),
		slog.Bool("json_only", opts.jsonOnly))
	return nil
}
