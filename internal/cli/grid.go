package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	astar "github.com/pdrpinto/motionastar"
	"github.com/pdrpinto/motionastar/gridworld"
)

type gridOptions struct {
	width       int
	height      int
	start       string
	goal        string
	walls       []string
	incremental bool
	timeout     time.Duration
}

type gridResult struct {
	Found      bool             `json:"found"`
	Cost       int              `json:"cost"`
	Path       []gridworld.Cell `json:"path"`
	Expansions int              `json:"expansions"`
	Steps      int              `json:"steps,omitempty"`
}

func newGridCmd(globals *globalOptions) *cobra.Command {
	options := &gridOptions{}

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Plan on a 4-connected grid",
		Long: `Plan a shortest path on a 4-connected grid with unit move cost and the
Manhattan distance heuristic. Walls are given as repeated --wall x,y flags.
On an unbounded grid an enclosed goal is only given up on at --timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(cmd, globals, options)
		},
	}

	cmd.Flags().IntVar(&options.width, "width", 10, "Grid width (0 for unbounded)")
	cmd.Flags().IntVar(&options.height, "height", 10, "Grid height (0 for unbounded)")
	cmd.Flags().StringVar(&options.start, "start", "0,0", "Start cell x,y")
	cmd.Flags().StringVar(&options.goal, "goal", "9,9", "Goal cell x,y")
	cmd.Flags().StringArrayVar(&options.walls, "wall", nil, "Wall cell x,y (repeatable)")
	cmd.Flags().BoolVar(&options.incremental, "incremental", false, "Drive the search one expansion at a time")
	cmd.Flags().DurationVar(&options.timeout, "timeout", 10*time.Second, "Search deadline (0 for none)")

	return cmd
}

func runGrid(cmd *cobra.Command, globals *globalOptions, options *gridOptions) error {
	logger, err := newLogger(cmd, globals.logLevel)
	if err != nil {
		return err
	}
	start, err := gridworld.ParseCell(options.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	goal, err := gridworld.ParseCell(options.goal)
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}
	walls := make([]gridworld.Cell, 0, len(options.walls))
	for _, text := range options.walls {
		wall, err := gridworld.ParseCell(text)
		if err != nil {
			return fmt.Errorf("--wall: %w", err)
		}
		walls = append(walls, wall)
	}

	grid := gridworld.New(options.width, options.height, walls...)
	if grid.Blocked(start) {
		return fmt.Errorf("start %s is blocked", start)
	}
	if grid.Blocked(goal) {
		return fmt.Errorf("goal %s is blocked", goal)
	}

	engine := gridworld.NewEngine(astar.WithLogger(logger))
	ctx := cmd.Context()
	if options.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.timeout)
		defer cancel()
	}

	var (
		trajectory astar.Trajectory[gridworld.Cell, gridworld.Move, int]
		steps      int
	)
	if options.incremental {
		for {
			step, stepErr := engine.NextTrajectory(ctx, grid, start, goal, gridworld.Sampler{})
			if stepErr != nil {
				err = stepErr
				break
			}
			steps++
			if step.Converged {
				trajectory = step.Trajectory
				break
			}
		}
	} else {
		trajectory, err = engine.Optimize(ctx, grid, start, goal, gridworld.Sampler{})
	}
	if err != nil && !errors.Is(err, astar.ErrUnreachable) {
		return err
	}

	result := gridResult{
		Found:      err == nil,
		Cost:       trajectory.Cost,
		Path:       trajectory.States(),
		Expansions: engine.Stats().Expansions,
		Steps:      steps,
	}
	if globals.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	if !result.Found {
		_, _ = fmt.Fprintf(out, "no path from %s to %s (%d expansions)\n", start, goal, result.Expansions)
		return nil
	}
	_, _ = headerColor.Fprintf(out, "cost: %d\n", result.Cost)
	_, _ = fmt.Fprintf(out, "expansions: %d\n", result.Expansions)
	cells := make([]string, 0, len(result.Path))
	for _, cell := range result.Path {
		cells = append(cells, cell.String())
	}
	_, _ = fmt.Fprintf(out, "path: %s\n", strings.Join(cells, " "))
	if grid.Width > 0 && grid.Height > 0 {
		renderGrid(out, grid, start, goal, result.Path, engine)
	}
	return nil
}

// renderGrid draws the grid with the highest row first.
func renderGrid(w io.Writer, grid *gridworld.Grid, start, goal gridworld.Cell, path []gridworld.Cell, engine *gridworld.Engine) {
	onPath := make(map[gridworld.Cell]bool, len(path))
	for _, cell := range path {
		onPath[cell] = true
	}
	discovered := make(map[gridworld.Cell]bool)
	for key := range engine.Discovered() {
		discovered[key] = true
	}

	var builder strings.Builder
	for y := grid.Height - 1; y >= 0; y-- {
		for x := 0; x < grid.Width; x++ {
			cell := gridworld.Cell{X: x, Y: y}
			switch {
			case cell == start:
				builder.WriteString(markColor.Sprint("S"))
			case cell == goal:
				builder.WriteString(markColor.Sprint("G"))
			case grid.Walls[cell]:
				builder.WriteString(wallColor.Sprint("#"))
			case onPath[cell]:
				builder.WriteString(successColor.Sprint("*"))
			case discovered[cell]:
				builder.WriteString(openColor.Sprint("o"))
			default:
				builder.WriteString(".")
			}
		}
		builder.WriteString("\n")
	}
	_, _ = fmt.Fprint(w, builder.String())
}
