package cli

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/board"
	"github.com/matzehuels/barchart/pkg/config"
	"github.com/matzehuels/barchart/pkg/pipeline"
	"github.com/matzehuels/barchart/pkg/server"
)

type serveOpts struct {
	addr    string
	charts  int
	seed    uint64
	measure string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{charts: -1}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a board of clickable, animated charts",
		Long: `Serve an HTML board of charts over HTTP.

Clicking a chart redraws it with new data: ctrl-click changes the values,
alt-click adds and removes bars, a plain click starts over with fresh
data, color and title. Charts can also be managed through the JSON API
under /charts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().IntVar(&opts.charts, "charts", -1, "number of random charts to seed (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().StringVar(&opts.measure, "measure", "", "text measurement: metrics, browser (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the PNG cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if so.addr != "" {
		cfg.Server.Addr = so.addr
	}
	if so.charts >= 0 {
		cfg.Server.Charts = so.charts
	}
	if so.seed != 0 {
		cfg.Server.Seed = so.seed
	}

	m, release, err := c.newMeasurer(cfg, so.measure)
	if err != nil {
		return err
	}
	defer release()

	runner, err := c.newRunner(ctx, cfg, so.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rng := newRand(cfg.Server.Seed)
	srv := server.New(board.New(board.WithRand(rng)),
		server.WithLogger(c.Logger),
		server.WithRunner(runner),
		server.WithRand(rng),
		server.WithChartOptions(append(cfg.ChartOptions(), chartMeasurer(m)...)...),
		server.WithPNGOptions(pipeline.Options{
			Scale:       cfg.Export.Scale,
			Engine:      cfg.Export.PNGEngine,
			ChromeFlags: cfg.Export.ChromeFlags,
		}),
	)
	if err := srv.Seed(ctx, cfg.Server.Charts); err != nil {
		return err
	}

	return srv.ListenAndServe(ctx, serverConfig(cfg), func(addr string) {
		printSuccess("Serving %d chart(s)", cfg.Server.Charts)
		printKeyValue("Board", StyleLink.Render("http://"+addr+"/"))
		printKeyValue("API", StyleLink.Render("http://"+addr+"/charts"))
		printDetail("Press Ctrl+C to stop")
	})
}

func serverConfig(cfg config.Config) server.Config {
	return server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}
}

// newRand returns a PCG source for seed, or a time-seeded one for zero.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
