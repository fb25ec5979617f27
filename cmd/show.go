package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/store"
)

var (
	resultPath    string // JSON file written by solve --out
	showStoreKind string // Store to read from
	showStorePath string // SQLite file for --store sqlite
)

// showCmd prints stored runs
var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "List stored runs, or print one run from the store or a JSON file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if resultPath != "" {
			res, err := sim.ReadResultJSON(resultPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			printSummary(os.Stdout, res, normalizedOutput, 0)
			return
		}

		s := mustOpenStore(cmd.Context(), showStoreKind, showStorePath)
		defer func() { _ = store.CloseIfSupported(s) }()

		if len(args) == 0 {
			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				logrus.Fatalf("Failed to list runs: %v", err)
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tT\tSTATUS\tOUTER\tINNER")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\n", r.RunID, r.Horizon, r.Status, r.OuterIterations, r.InnerIterations)
			}
			_ = tw.Flush()
			return
		}

		res, ok, err := s.GetResult(cmd.Context(), args[0])
		if err != nil {
			logrus.Fatalf("Failed to load run %s: %v", args[0], err)
		}
		if !ok {
			logrus.Fatalf("Run %s not found in %s store", args[0], showStoreKind)
		}
		printSummary(os.Stdout, res, normalizedOutput, 0)
	},
}

func init() {
	showCmd.Flags().StringVar(&resultPath, "file", "", "Read a JSON result instead of the store")
	showCmd.Flags().StringVar(&showStoreKind, "store", "sqlite", "Result store: memory or sqlite")
	showCmd.Flags().StringVar(&showStorePath, "store-path", "hanksim.db", "SQLite file for --store sqlite")

	rootCmd.AddCommand(showCmd)
}
