package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lazypower/steady/internal/kalman"
	"github.com/spf13/cobra"
)

var (
	filterPreset string
	filterTarget float64
	filterSteps  int
)

var filterCmd = &cobra.Command{
	Use:   "filter [values...]",
	Short: "Run measurements through a filter offline",
	Long: `Filter runs a sequence of measurements through an adaptive Kalman
filter without a server. Values come from arguments or, when none are given,
one per line from stdin. Prints raw and smoothed values, then a prediction.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&filterPreset, "preset", "default", "filter preset (default, decay, coaccess, latency)")
	filterCmd.Flags().Float64Var(&filterTarget, "target", 0, "setpoint target (0 for none)")
	filterCmd.Flags().IntVar(&filterSteps, "steps", 5, "prediction horizon after processing")
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, ok := kalman.Preset(filterPreset)
	if !ok {
		return fmt.Errorf("unknown preset %q (have %v)", filterPreset, kalman.PresetNames())
	}

	values, err := readValues(args)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no values to filter")
	}

	f := kalman.New(cfg)
	for _, v := range values {
		smoothed := f.Process(v, filterTarget)
		fmt.Printf("%12.4f -> %12.4f\n", v, smoothed)
	}

	value, uncertainty := f.PredictWithUncertainty(filterSteps)
	fmt.Printf("\npredicted %+d steps: %.4f (±%.4f)\n", filterSteps, value, uncertainty)
	fmt.Printf("velocity: %.4f  gain: %.4f  observations: %d\n",
		f.Velocity(), f.Gain(), f.Observations())
	return nil
}

func readValues(args []string) ([]float64, error) {
	var values []float64

	if len(args) > 0 {
		for _, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", a, err)
			}
			values = append(values, v)
		}
		return values, nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", text, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return values, nil
}
