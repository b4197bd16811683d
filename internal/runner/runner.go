package runner

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/inventory"
	"github.com/projectdiscovery/netvis/pkg/server"
	"github.com/projectdiscovery/netvis/pkg/types"
	errorutil "github.com/projectdiscovery/utils/errors"
)

const shutdownTimeout = 10 * time.Second

// Scanner runs one discovery cycle
type Scanner interface {
	Scan(ctx context.Context) (*types.ScanResult, error)
}

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	config  config.Config
	scanner Scanner
	output  io.Writer
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	cfg, err := options.Config()
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("invalid configuration")
	}
	scanner, err := inventory.NewFromConfig(cfg)
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("could not create scanner")
	}
	gologger.Verbose().Msgf("probe=%s arp-source=%s probe-concurrency=%d resolve-concurrency=%d",
		cfg.ProbeMethod, cfg.TableSource, cfg.ProbeConcurrency, cfg.ResolveConcurrency)

	return &Runner{options: options, config: cfg, scanner: scanner, output: os.Stdout}, nil
}

// Run the instance
func (r *Runner) Run(ctx context.Context) error {
	if r.options.Serve {
		return r.serve(ctx)
	}

	result, err := r.scanner.Scan(ctx)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("scan did not complete")
	}
	if r.options.Table {
		err = writeTable(r.output, result, r.options.NoColor)
	} else {
		err = writeJSON(r.output, result)
	}
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not write results")
	}
	return nil
}

func (r *Runner) serve(ctx context.Context) error {
	srv := server.New(r.scanner, r.config.ListenAddress, r.config.ScanTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("could not serve on %s", r.config.ListenAddress)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		gologger.Warning().Msgf("Server did not shut down cleanly: %s", err)
	}
	return nil
}
