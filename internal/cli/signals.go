package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lazypower/steady/internal/store"
	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List tracked signals and their last snapshot",
	RunE:  runSignals,
}

func runSignals(cmd *cobra.Command, args []string) error {
	dbPath := os.Getenv("STEADY_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	signals, err := db.ListSignals()
	if err != nil {
		return err
	}
	if len(signals) == 0 {
		fmt.Println("no tracked signals")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRESET\tTARGET\tFEATURE\tSTATE\tVELOCITY\tOBSERVATIONS")
	for _, s := range signals {
		snap, err := db.LatestSnapshot(s.Name)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintf(w, "%s\t%s\t%g\t%s\t-\t-\t-\n", s.Name, s.Preset, s.Target, s.Feature)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%.4f\t%.4f\t%d\n",
			s.Name, s.Preset, s.Target, s.Feature, snap.State, snap.Velocity, snap.Observations)
	}
	return w.Flush()
}
