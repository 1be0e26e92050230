package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	astar "github.com/pdrpinto/motionastar"
	"github.com/pdrpinto/motionastar/planar"
)

type planarOptions struct {
	start      string
	goal       string
	tolerance  float64
	step       float64
	maxStep    float64
	headings   int
	resolution float64
	jitter     float64
	seed       uint64
	obstacles  []string
	bounds     string
	timeout    time.Duration
}

type planarPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type planarResult struct {
	Found      bool          `json:"found"`
	Cost       float64       `json:"cost"`
	Path       []planarPoint `json:"path"`
	Expansions int           `json:"expansions"`
}

func newPlanarCmd(globals *globalOptions) *cobra.Command {
	options := &planarOptions{}

	cmd := &cobra.Command{
		Use:   "planar",
		Short: "Plan a point robot in the continuous plane",
		Long: `Plan straight-segment motions for a point robot around circular obstacles.

Controls are sampled as a fan of headings of fixed length. Positions falling
into the same lattice cell of side --resolution are pruned as duplicates.
The search has no deadline of its own; --timeout bounds it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanar(cmd, globals, options)
		},
	}

	cmd.Flags().StringVar(&options.start, "start", "0,0", "Start position x,y")
	cmd.Flags().StringVar(&options.goal, "goal", "5,0", "Goal position x,y")
	cmd.Flags().Float64Var(&options.tolerance, "tolerance", 0.5, "Goal radius")
	cmd.Flags().Float64Var(&options.step, "step", 1, "Segment length")
	cmd.Flags().Float64Var(&options.maxStep, "max-step", 0, "Upper bound on the segment length (0 for none)")
	cmd.Flags().IntVar(&options.headings, "headings", 8, "Headings per expansion")
	cmd.Flags().Float64Var(&options.resolution, "resolution", 0.5, "Lattice cell side used for duplicate pruning")
	cmd.Flags().Float64Var(&options.jitter, "jitter", 0, "Random heading perturbation as a fraction of the heading spacing")
	cmd.Flags().Uint64Var(&options.seed, "seed", 1, "Seed for heading jitter")
	cmd.Flags().StringArrayVar(&options.obstacles, "obstacle", nil, "Circular obstacle x,y,r (repeatable)")
	cmd.Flags().StringVar(&options.bounds, "bounds", "", "Workspace bounds minx,miny,maxx,maxy")
	cmd.Flags().DurationVar(&options.timeout, "timeout", 10*time.Second, "Search deadline (0 for none)")

	return cmd
}

func runPlanar(cmd *cobra.Command, globals *globalOptions, options *planarOptions) error {
	logger, err := newLogger(cmd, globals.logLevel)
	if err != nil {
		return err
	}
	start, err := parseFloats(options.start, 2)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	goal, err := parseFloats(options.goal, 2)
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}

	model := &planar.Model{Resolution: options.resolution, Tolerance: options.tolerance}
	for _, text := range options.obstacles {
		values, err := parseFloats(text, 3)
		if err != nil {
			return fmt.Errorf("--obstacle: %w", err)
		}
		model.Obstacles = append(model.Obstacles, planar.Circle{X: values[0], Y: values[1], Radius: values[2]})
	}
	if options.bounds != "" {
		values, err := parseFloats(options.bounds, 4)
		if err != nil {
			return fmt.Errorf("--bounds: %w", err)
		}
		model.Bounds = planar.Bounds{MinX: values[0], MinY: values[1], MaxX: values[2], MaxY: values[3]}
	}

	ctx := cmd.Context()
	if options.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.timeout)
		defer cancel()
	}

	engine := planar.NewEngine(astar.WithLogger(logger))
	sampler := planar.NewFanSampler(options.headings, options.step, options.jitter, options.seed)
	sampler.MaxStep = options.maxStep
	trajectory, err := engine.Optimize(ctx, model, model.At(start[0], start[1]), model.At(goal[0], goal[1]), sampler)
	if err != nil && !errors.Is(err, astar.ErrUnreachable) {
		return err
	}

	result := planarResult{
		Found:      err == nil,
		Cost:       trajectory.Cost,
		Path:       make([]planarPoint, 0, trajectory.Len()),
		Expansions: engine.Stats().Expansions,
	}
	for _, state := range trajectory.States() {
		result.Path = append(result.Path, planarPoint{X: state.X, Y: state.Y})
	}
	if globals.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	if !result.Found {
		_, _ = fmt.Fprintf(out, "no path found (%d expansions)\n", result.Expansions)
		return nil
	}
	_, _ = headerColor.Fprintf(out, "cost: %.3f\n", result.Cost)
	_, _ = fmt.Fprintf(out, "expansions: %d\n", result.Expansions)
	for i, point := range result.Path {
		_, _ = fmt.Fprintf(out, "%3d  %8.3f %8.3f\n", i, point.X, point.Y)
	}
	return nil
}

// parseFloats parses exactly n comma separated numbers.
func parseFloats(text string, n int) ([]float64, error) {
	fields := strings.Split(text, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("invalid value %q: want %d comma separated numbers", text, n)
	}
	values := make([]float64, 0, n)
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", text, err)
		}
		values = append(values, value)
	}
	return values, nil
}
