package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/board"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/demo"
)

type demoOpts struct {
	charts int
	seed   uint64
	dir    string
}

// demoCommand creates the interactive terminal demo.
func (c *CLI) demoCommand() *cobra.Command {
	opts := demoOpts{charts: 2, dir: "."}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Click through animated charts in the terminal",
		Long: `Show random demo charts in the terminal and redraw them on key presses.

  tab    select the next chart
  v      ctrl-click: new values for the same countries
  m      alt-click: add, drop and revalue countries
  enter  click: fresh data, color and title
  s      save the selected chart as SVG
  q      quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.charts, "charts", opts.charts, "number of charts")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().StringVar(&opts.dir, "dir", opts.dir, "directory saved SVGs are written to")

	return cmd
}

func (c *CLI) runDemo(ctx context.Context, do demoOpts) error {
	if do.charts < 1 {
		return fmt.Errorf("--charts must be at least 1, got %d", do.charts)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	m, release, err := c.newMeasurer(cfg, "")
	if err != nil {
		return err
	}
	defer release()

	b, err := seedBoard(ctx, do.charts, do.seed, append(cfg.ChartOptions(), chartMeasurer(m)...))
	if err != nil {
		return err
	}

	loggerFromContext(ctx).Debug("starting demo", "charts", do.charts, "dir", do.dir)

	final, err := tea.NewProgram(NewBoardModel(ctx, b, do.dir), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(BoardModel); ok && fm.Err != nil {
		printWarning("%v", fm.Err)
	}
	return nil
}

// seedBoard fills a board with n demo charts, alternating horizontal and
// vertical.
func seedBoard(ctx context.Context, n int, seed uint64, opts []chart.Option) (*board.Board, error) {
	rng := newRand(seed)
	b := board.New(board.WithRand(rng))
	for i := range n {
		o := chart.Horizontal
		if i%2 == 1 {
			o = chart.Vertical
		}
		copts := append(opts[:len(opts):len(opts)], chart.WithMargin(demo.Margin()), chart.WithRand(rng))
		c, err := chart.New(ctx, o, demo.RandomData(rng, demo.Countries()), demo.InitialTitle, copts...)
		if err != nil {
			return nil, err
		}
		b.Add(c)
	}
	return b, nil
}
