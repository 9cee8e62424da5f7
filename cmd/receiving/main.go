package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/receiving/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := parse(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(2)
	}

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parse(name string, args []string) (command, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	switch name {
	case "reconcile":
		var (
			poFile       = fs.String("po", "", "Path to purchase order lines CSV file")
			receivedFile = fs.String("received", "", "Path to received lines CSV file")
			existingFile = fs.String("existing", "", "Existing variance document (JSON) to merge into")
			poID         = fs.String("po-id", "", "Purchase order id")
			poNumber     = fs.String("po-number", "", "Purchase order number")
			supplier     = fs.String("supplier", "", "Supplier name")
			outputDir    = fs.String("output", "", "Output directory for results (optional)")
			format       = fs.String("format", "text", "Output format: text, json, csv, xlsx")
			verbose      = fs.Bool("verbose", false, "Enable verbose output")
			help         = fs.Bool("help", false, "Show help message")
		)
		fs.Parse(args)

		return commands.NewReconcileCommand(commands.ReconcileConfig{
			POFile:       *poFile,
			ReceivedFile: *receivedFile,
			ExistingFile: *existingFile,
			POID:         *poID,
			PONumber:     *poNumber,
			Supplier:     *supplier,
			OutputDir:    *outputDir,
			Format:       *format,
			Verbose:      *verbose,
			Help:         *help,
		}), nil

	case "match":
		var (
			receivedID = fs.String("received-id", "", "Received record to reconcile")
			poID       = fs.String("po-id", "", "Purchase order to reconcile against")
			configFile = fs.String("config", "", "YAML configuration file (optional)")
			format     = fs.String("format", "json", "Output format: text, json, csv, xlsx")
			outputDir  = fs.String("output", "", "Output directory for results (optional)")
			help       = fs.Bool("help", false, "Show help message")
		)
		fs.Parse(args)

		return commands.NewMatchCommand(commands.MatchConfig{
			ReceivedID: *receivedID,
			POID:       *poID,
			ConfigFile: *configFile,
			Format:     *format,
			OutputDir:  *outputDir,
			Help:       *help,
		}), nil

	case "serve":
		var (
			configFile = fs.String("config", "", "YAML configuration file (optional)")
			migrate    = fs.Bool("migrate", false, "Create database tables before serving")
		)
		fs.Parse(args)

		return commands.NewServeCommand(commands.ServeConfig{
			ConfigFile: *configFile,
			Migrate:    *migrate,
		}), nil

	case "generate":
		var (
			lines     = fs.Int("lines", 0, "Number of purchase order lines to generate")
			variance  = fs.Float64("variance", 0.2, "Share of lines delivered with a discrepancy")
			outputDir = fs.String("output", "", "Output directory for generated files")
			seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
			verbose   = fs.Bool("verbose", false, "Enable verbose output")
			help      = fs.Bool("help", false, "Show help message")
		)
		fs.Parse(args)

		return commands.NewGenerateCommand(commands.GenerateConfig{
			Lines:        *lines,
			VarianceRate: *variance,
			OutputDir:    *outputDir,
			Seed:         *seed,
			Verbose:      *verbose,
			Help:         *help,
		}), nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Receiving - purchase order receiving reconciliation

USAGE:
    receiving <command> [options]

COMMANDS:
    reconcile   Compare a delivery CSV against a purchase order CSV
    match       Reconcile a stored received record and save the variance report
    serve       Run the HTTP API and the pending match scheduler
    generate    Write a synthetic purchase order and delivery

Run "receiving <command> -help" for command options.
`)
}
