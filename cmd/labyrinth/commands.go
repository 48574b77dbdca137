package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/labyrinth/internal/database/repository"
	"github.com/jask/labyrinth/internal/pathfinding"
	"github.com/jask/labyrinth/internal/service"
	"github.com/jask/labyrinth/internal/snapshot"
)

func newSolveCmd(e *env) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "solve <snapshot>",
		Short: "solve an exported snapshot without the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo := e.cfg.Algorithm()
			if algorithm != "" {
				a, err := pathfinding.ParseAlgorithm(algorithm)
				if err != nil {
					return err
				}
				algo = a
			}
			g, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			out, err := e.runService().Run(cmd.Context(), g, algo)
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "dijkstra, bfs or dfs (default from config)")
	return cmd
}

// printOutcome writes the overlaid grid followed by a one-line summary. No
// path is a normal answer; every other failure is returned.
func printOutcome(w io.Writer, out service.Outcome) error {
	fmt.Fprintln(w, out.Grid.String())
	switch {
	case out.Err == nil:
		fmt.Fprintf(w, "%s: path of %d cells in %s\n",
			out.Algorithm.Label(), len(out.Route)-len(out.Anomalies), out.Elapsed.Round(time.Millisecond))
		if n := len(out.Anomalies); n > 0 {
			fmt.Fprintf(w, "skipped %d malformed path points\n", n)
		}
		return nil
	case errors.Is(out.Err, pathfinding.ErrNoPathFound):
		fmt.Fprintf(w, "%s: no path found\n", out.Algorithm.Label())
		return nil
	default:
		return out.Err
	}
}

func newHistoryCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "list recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.history()
			if err != nil {
				return err
			}
			runs, err := repository.NewRunRepo(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "aggregate runs per algorithm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.history()
			if err != nil {
				return err
			}
			stats, err := repository.NewRunRepo(db).Stats(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	})

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "delete the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete history without --yes")
			}
			db, err := e.history()
			if err != nil {
				return err
			}
			removed, err := (&service.MaintenanceService{DB: db}).Reset(cmd.Context())
			if err != nil {
				return err
			}
			e.log.WithField("removed", removed).Info("history reset")
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d runs\n", removed)
			return nil
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	cmd.AddCommand(reset)
	return cmd
}

func printRuns(w io.Writer, runs []repository.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tALGORITHM\tSIZE\tSTART\tEND\tWALLS\tOUTCOME\tLENGTH\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t(%d,%d)\t(%d,%d)\t%d\t%s\t%d\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Algorithm,
			r.Rows, r.Cols, r.StartRow, r.StartCol, r.EndRow, r.EndCol,
			r.Walls, r.Outcome, r.PathLength, r.Duration)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, stats []repository.AlgorithmStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tRUNS\tFOUND\tAVG LENGTH\tAVG DURATION")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\n", s.Algorithm, s.Runs, s.Found, s.AvgPathLength, s.AvgDuration)
	}
	_ = tw.Flush()
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "list the algorithms the service understands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, a := range pathfinding.Algorithms() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", a, a.Label())
			}
		},
	}
}
