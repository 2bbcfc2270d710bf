// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshintel/fragmapper/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past resolutions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent resolutions, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(w, "No resolutions recorded.")
		return nil
	}
	for _, rec := range records {
		target := rec.URL
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "%s  %-20s  %-10s  %-40s  %s\n",
			rec.ResolvedAt.Format("2006-01-02 15:04"), rec.Mode, rec.Status,
			truncate(rec.Input, 40), target)
	}
	return nil
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all resolution records (keeps the crosswalk table)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func openHistory() (*history.Store, error) {
	cfg := resolverConfig()
	if cfg.History.Dir == "" {
		return nil, fmt.Errorf("history is disabled: configure history.dir")
	}
	return history.NewStore(cfg.History)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum records to list (0 uses history.max_list)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
