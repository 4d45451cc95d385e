package cli

import (
	"fmt"
	"os"

	"github.com/lazypower/steady/internal/ingest"
	"github.com/spf13/cobra"
)

var ingestSignal string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Stream JSONL observations from stdin to the server",
	Long: `Ingest reads observations from stdin, one JSON object per line
({"signal": "query_latency", "value": 42.5}), and posts each to a running
steady server. Lines without a signal field use --signal.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSignal, "signal", "", "default signal for lines that omit one")
}

func runIngest(cmd *cobra.Command, args []string) error {
	client := ingest.NewClient()
	if !client.Healthy() {
		return fmt.Errorf("steady server not reachable (is `steady serve` running?)")
	}

	posted, errored := ingest.Stream(client, os.Stdin, ingestSignal)

	fmt.Fprintf(os.Stderr, "ingested %d observations", posted)
	if errored > 0 {
		fmt.Fprintf(os.Stderr, ", %d errors", errored)
	}
	fmt.Fprintln(os.Stderr)

	if errored > 0 && posted == 0 {
		return fmt.Errorf("all observations failed")
	}
	return nil
}
