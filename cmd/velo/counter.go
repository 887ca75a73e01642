package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AnatoleLucet/velo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func counterCmd() *cobra.Command {
	var (
		from    int
		to      int
		batch   bool
		metrics bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Count with a state, a computed state and a reaction",
		Long: `Count from --from to --to, printing every run of a reaction
reading the count and its double.

Each step is flushed on its own, or with --batch all steps are
written in one batch and the reaction only sees the last one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runCounter(ctx, cmd.OutOrStdout(), from, to, batch, metrics)
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Initial count")
	cmd.Flags().IntVar(&to, "to", 3, "Final count")
	cmd.Flags().BoolVarP(&batch, "batch", "b", false, "Write every step in one batch")
	cmd.Flags().BoolVarP(&metrics, "metrics", "m", false, "Print engine metrics when done")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Give up waiting for the engine after this long")

	return cmd
}

func runCounter(ctx context.Context, out io.Writer, from, to int, batch, metrics bool) error {
	reg := prometheus.NewRegistry()
	e := velo.New(velo.WithMetrics(velo.NewMetrics(velo.MetricsConfig{Registry: reg})))

	count := velo.Record(e, func() *velo.State[int] {
		count := velo.CreateState(e, from)
		double := velo.CreateComputed(e, func() int { return count.Get() * 2 })

		e.CreateReaction(func() {
			fmt.Fprintf(out, "count=%d double=%d\n", count.Get(), double.Get())
		})

		return count
	})

	if batch {
		e.BatchReactions(func() {
			for i := from + 1; i <= to; i++ {
				count.Set(i)
			}
		})
	} else {
		for i := from + 1; i <= to; i++ {
			count.Set(i)
			if err := e.ToBeClean().Wait(ctx); err != nil {
				return err
			}
		}
	}

	if metrics {
		return printMetrics(out, reg)
	}

	return nil
}

func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(out, "%s%s count=%d\n", mf.GetName(), labels, m.GetHistogram().GetSampleCount())
			}
		}
	}

	return nil
}
