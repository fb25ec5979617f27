package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/store"
)

var (
	// CLI flags shared by solve and sweep
	calibrationPath string  // Path to calibration.yaml
	logLevel        string  // Log verbosity level
	horizon         int     // T, periods including both steady-state boundaries
	shockPeriod     int     // TR, first period of the rate change
	shockSize       float64 // Additive change in the gross rate
	shockLength     int     // Number of periods the change lasts
	rbar            float64 // Steady-state gross rate
	sTol            float64 // Outer (price dispersion) tolerance
	wTol            float64 // Inner (wage) tolerance
	maxOuter        int     // Outer iteration cap
	maxInner        int     // Inner iteration cap
	damping         float64 // Weight on the new wage
	policy          string  // Non-convergence policy: warn or fail

	// Output and persistence
	outPath   string // JSON result file
	storeKind string // Result store backend: none, memory or sqlite
	storePath string // SQLite file for --store sqlite
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hanksim",
	Short: "Perfect-foresight transition solver for a heterogeneous-agent New Keynesian economy",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// solveCmd computes one transition path
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the transition after a pre-announced rate shock",
	Run: func(cmd *cobra.Command, args []string) {
		cal := mustLoadCalibration(cmd)
		e, err := buildEconomy(cal)
		if err != nil {
			logrus.Fatalf("Failed to build steady state: %v", err)
		}
		shock := cal.Shock.ShockSpec()
		logrus.Infof("Solving transition: T=%d TR=%d size=%g length=%d rbar=%.6f",
			shock.Horizon, shock.Period, shock.Size, shock.Length, shock.RBar)

		startTime := time.Now()
		res, err := sim.RunTransition(shock, e.Params(), e.SteadyState(), e, cal.Solver.SolverConfig())
		var convErr *sim.ConvergenceError
		if err != nil && !errors.As(err, &convErr) {
			logrus.Fatalf("Transition failed: %v", err)
		}
		printSummary(os.Stdout, res, e.SteadyState().Y, time.Since(startTime))
		persist(cmd.Context(), res)
		if convErr != nil {
			logrus.Fatalf("Transition did not converge: %v", convErr)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// mustLoadCalibration reads --calibration and applies any flags the user set
// explicitly. Unset flags never override file values.
func mustLoadCalibration(cmd *cobra.Command) *Calibration {
	cal, err := loadCalibration(calibrationPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cal.Shock.Horizon = horizon
	}
	if flags.Changed("shock-period") {
		cal.Shock.Period = shockPeriod
	}
	if flags.Changed("shock-size") {
		cal.Shock.Size = shockSize
	}
	if flags.Changed("shock-length") {
		cal.Shock.Length = shockLength
	}
	if flags.Changed("rbar") {
		cal.Shock.RBar = rbar
	}
	if flags.Changed("s-tol") {
		cal.Solver.STol = sTol
	}
	if flags.Changed("w-tol") {
		cal.Solver.WTol = wTol
	}
	if flags.Changed("max-outer") {
		cal.Solver.MaxOuter = maxOuter
	}
	if flags.Changed("max-inner") {
		cal.Solver.MaxInner = maxInner
	}
	if flags.Changed("damping") {
		cal.Solver.Damping = damping
	}
	if flags.Changed("policy") {
		cal.Solver.Policy = policy
	}
	if !sim.IsValidNonConvergencePolicy(cal.Solver.Policy) {
		logrus.Fatalf("Unknown non-convergence policy %q; valid: warn, fail", cal.Solver.Policy)
	}
	return cal
}

// persist writes res to --out and to the configured store, if any.
func persist(ctx context.Context, res *sim.Result) {
	if outPath != "" {
		if err := res.WriteJSON(outPath); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Result written to %s", outPath)
	}
	if storeKind == "" || storeKind == "none" {
		return
	}
	s := mustOpenStore(ctx, storeKind, storePath)
	defer func() { _ = store.CloseIfSupported(s) }()
	if err := s.SaveResult(ctx, res); err != nil {
		logrus.Fatalf("Failed to store result: %v", err)
	}
	logrus.Infof("Stored run %s in %s store", res.RunID, storeKind)
}

func mustOpenStore(ctx context.Context, kind, path string) store.Store {
	s, err := store.NewStore(kind, path)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if err := s.Init(ctx); err != nil {
		logrus.Fatalf("Failed to open %s store: %v", kind, err)
	}
	return s
}

func registerModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&calibrationPath, "calibration", "calibration.yaml", "Path to the calibration file")
	cmd.Flags().IntVar(&horizon, "horizon", 200, "Number of periods T, including both steady-state boundaries")
	cmd.Flags().IntVar(&shockPeriod, "shock-period", 10, "First period TR at which the rate differs from rbar")
	cmd.Flags().Float64Var(&shockSize, "shock-size", -0.005, "Additive change in the gross rate (negative is a cut)")
	cmd.Flags().IntVar(&shockLength, "shock-length", 1, "Number of periods the rate change lasts")
	cmd.Flags().Float64Var(&rbar, "rbar", 1.0025, "Steady-state gross rate")

	cmd.Flags().Float64Var(&sTol, "s-tol", 1e-6, "Tolerance on the price-dispersion path")
	cmd.Flags().Float64Var(&wTol, "w-tol", 1e-6, "Tolerance on the wage path")
	cmd.Flags().IntVar(&maxOuter, "max-outer", 100, "Cap on price-dispersion iterations")
	cmd.Flags().IntVar(&maxInner, "max-inner", 100, "Cap on wage iterations per outer iteration")
	cmd.Flags().Float64Var(&damping, "damping", 0.25, "Weight on the updated wage")
	cmd.Flags().StringVar(&policy, "policy", "warn", "Non-convergence policy: warn or fail")

	registerStoreFlags(cmd)
}

func registerStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storeKind, "store", "none", "Result store: none, memory or sqlite")
	cmd.Flags().StringVar(&storePath, "store-path", "hanksim.db", "SQLite file for --store sqlite")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerModelFlags(solveCmd)
	solveCmd.Flags().StringVar(&outPath, "out", "", "Write the result as JSON to this file")

	rootCmd.AddCommand(solveCmd)
}
