package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/store"
)

var (
	sweepSizes []float64 // Shock sizes to solve
	parallel   int       // Concurrent solves
)

// sweepRow is one solved shock size.
type sweepRow struct {
	Size   float64
	Result *sim.Result
}

// runSweep solves the transition for every size concurrently, at most
// parallel at a time. Each solve builds its own paths; the household block
// is shared read-only. Rows are returned in input order.
func runSweep(ctx context.Context, base sim.ShockSpec, sizes []float64, parallel int,
	p *sim.Params, ss *sim.SteadyState, hh sim.Household, cfg sim.SolverConfig) ([]sweepRow, error) {
	rows := make([]sweepRow, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, size := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shock := base
			shock.Size = size
			res, err := sim.RunTransition(shock, p, ss, hh, cfg)
			if err != nil {
				return fmt.Errorf("shock size %g: %w", size, err)
			}
			logrus.Infof("shock size %g: %s after %d outer iterations", size, res.Status, res.OuterIterations)
			rows[i] = sweepRow{Size: size, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func printSweep(w io.Writer, rows []sweepRow, yss float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "size\tstatus\touter\tinner\tpeak t\tpeak Y gap %\tpeak pi %\trun\t")
	for _, r := range rows {
		t, dy := peakDeviation(r.Result.Y, yss)
		_, dpi := peakDeviation(r.Result.Pi, 1)
		fmt.Fprintf(tw, "%g\t%s\t%d\t%d\t%d\t%+.4f\t%+.4f\t%s\t\n",
			r.Size, r.Result.Status, r.Result.OuterIterations, r.Result.InnerIterations,
			t, 100*dy/yss, 100*dpi, r.Result.RunID)
	}
	_ = tw.Flush()
}

// sweepCmd solves the same shock for several sizes
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve the transition for several shock sizes in parallel",
	Run: func(cmd *cobra.Command, args []string) {
		cal := mustLoadCalibration(cmd)
		e, err := buildEconomy(cal)
		if err != nil {
			logrus.Fatalf("Failed to build steady state: %v", err)
		}
		rows, err := runSweep(cmd.Context(), cal.Shock.ShockSpec(), sweepSizes, parallel,
			e.Params(), e.SteadyState(), e, cal.Solver.SolverConfig())
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		printSweep(os.Stdout, rows, e.SteadyState().Y)

		if storeKind == "" || storeKind == "none" {
			return
		}
		s := mustOpenStore(cmd.Context(), storeKind, storePath)
		defer func() { _ = store.CloseIfSupported(s) }()
		for _, r := range rows {
			if err := s.SaveResult(cmd.Context(), r.Result); err != nil {
				logrus.Fatalf("Failed to store run %s: %v", r.Result.RunID, err)
			}
		}
	},
}

func init() {
	registerModelFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepSizes, "sizes", []float64{-0.0025, -0.005, -0.01}, "Comma-separated shock sizes")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum number of concurrent solves")

	rootCmd.AddCommand(sweepCmd)
}
