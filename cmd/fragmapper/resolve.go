// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/fragmapper/internal/history"
	"github.com/meshintel/fragmapper/internal/resolve"
	"github.com/meshintel/fragmapper/internal/rules"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [description]",
	Short: "Resolve one listing to a canonical catalog page",
	Long: `Resolve maps a free-text fragrance listing to a canonical catalog page.
The description comes from the arguments, or from stdin when no
arguments are given.

Output is exactly one of:
  - a single canonical URL (confident match)
  - AMBIGUOUS followed by up to 5 candidate URLs, best first
  - NOT_FOUND

With --json the full resolution report (clues, queries, ranked
candidates) is emitted instead.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("mode", string(resolve.ModeDescToParfumo),
		"resolution profile: desc-to-parfumo, desc-to-fragrantica, or crosswalk")
	resolveCmd.Flags().Bool("json", false, "emit the full resolution report as JSON")
	resolveCmd.Flags().Duration("timeout", 0, "overall resolution deadline (0 uses catalog timeout x queries)")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := resolverConfig()
	loader := rules.NewLoader(cfg.Rules)

	var hist *history.Store
	if cfg.History.Dir != "" {
		hist, err = history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	ctx := cmd.Context()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	mode, _ := cmd.Flags().GetString("mode")
	resolver := resolve.New(cfg, loader, hist)

	report, err := resolver.Resolve(ctx, resolve.Mode(mode), input, os.Stderr)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("resolution cancelled: %w", ctx.Err())
		}
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Result.Render())
	return nil
}

// readInput joins the args, or reads stdin when none are given.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading description from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
