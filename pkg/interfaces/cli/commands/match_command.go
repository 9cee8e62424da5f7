package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/receiving/pkg/interfaces/cli/output"
)

// MatchConfig holds configuration for the match command
type MatchConfig struct {
	ReceivedID string
	POID       string
	ConfigFile string
	Format     string
	OutputDir  string
	Help       bool

	Out io.Writer
}

// MatchCommand reconciles a stored received record and saves the result
type MatchCommand struct {
	config MatchConfig
}

// NewMatchCommand creates a new match command with the given configuration
func NewMatchCommand(config MatchConfig) *MatchCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &MatchCommand{config: config}
}

// Execute runs the match command
func (c *MatchCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.ReceivedID == "" || c.config.POID == "" {
		return fmt.Errorf("validation error: must specify both -received-id and -po-id")
	}

	rt, err := openBackend(ctx, c.config.ConfigFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	outcome, err := rt.service.ReconcileAndSave(ctx, c.config.ReceivedID, c.config.POID)
	if err != nil {
		return fmt.Errorf("error matching received record: %w", err)
	}

	return output.Generate(outcome, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Out:       c.config.Out,
	})
}

func (c *MatchCommand) showHelp() {
	fmt.Fprint(c.config.Out, `receiving match - Reconcile a stored received record against a purchase order

USAGE:
    receiving match -received-id <id> -po-id <id> [options]

OPTIONS:
    -received-id <id>   Received record to reconcile
    -po-id <id>         Purchase order to reconcile against
    -config <file>      YAML configuration file (optional)
    -format <fmt>       Output format: text, json, csv, xlsx (default: json)
    -output <dir>       Output directory for results (required for csv, xlsx)
    -help               Show this help message

The merged variance document is stored on the received record, which is
marked matched; the purchase order is marked received.
`)
}
