// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/fragmapper/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate the rules file",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active rule set version and lexicon sizes",
	RunE:  runRulesShow,
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	cfg := resolverConfig()
	set, err := rules.NewLoader(cfg.Rules).Current()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "version:          %s\n", set.Version)
	fmt.Fprintf(w, "brands:           %d\n", len(set.Brands))
	fmt.Fprintf(w, "flankers:         %d\n", len(set.Flankers))
	fmt.Fprintf(w, "synonyms:         %d\n", len(set.Synonyms))
	fmt.Fprintf(w, "noise terms:      %d\n", len(set.NoiseTerms))
	fmt.Fprintf(w, "exclusion terms:  %d\n", len(set.ExclusionTerms))
	fmt.Fprintf(w, "notes:            %d\n", len(set.Notes))
	fmt.Fprintf(w, "bottle cues:      %d\n", len(set.BottleCues))
	fmt.Fprintf(w, "short names:      %d\n", len(set.ShortNames))
	fmt.Fprintf(w, "confidence margin: %.2f  min accept: %.2f  floor: %.2f\n",
		set.Thresholds.ConfidenceMargin, set.Thresholds.MinAcceptScore, set.Thresholds.PlausibilityFloor)
	return nil
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a rules file without loading it into the resolver",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesCheck,
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	path := resolverConfig().Rules.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no rules file: pass a path or configure rules.path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	set, err := rules.Parse(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %s)\n", path, set.Version)
	return nil
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}
