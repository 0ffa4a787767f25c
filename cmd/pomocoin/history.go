package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/stats"
)

const defaultTrendWindow = 3

var (
	historySince       string
	historyLast        int
	historyTrendWindow int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished and skipped phases",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 20, "limit to last N phases (0 = all)")
	cmd.Flags().IntVar(&historyTrendWindow, "trend-window", defaultTrendWindow, "days in the moving average of the daily trend")
	return cmd
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseSince(historySince)
	if err != nil {
		return err
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, model.HistoryFilter{Since: since, Last: historyLast}, time.Local)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Records); err != nil {
		return err
	}
	if err := stats.RenderTrend(out, report.Days, historyTrendWindow); err != nil {
		return err
	}
	for _, top := range report.Top {
		if _, err := fmt.Fprintf(out, "%s: %d points over %d phases\n", top.Name, top.Points, top.Phases); err != nil {
			return err
		}
	}
	if len(report.Top) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return stats.RenderHistory(out, report.Records, time.Local)
}
