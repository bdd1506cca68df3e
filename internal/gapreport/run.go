// Package gapreport prints the missing-summit reports once from the command
// line, using the same service as the dashboard.
package gapreport

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/okian/summitgap/internal/adapters/remote"
	service "github.com/okian/summitgap/internal/app"
	"github.com/okian/summitgap/internal/config"
	"github.com/okian/summitgap/internal/domain/types"
	"github.com/okian/summitgap/pkg/logger"
)

// ViewAll requests both completion views.
const ViewAll = "all"

// Options describes one CLI run.
type Options struct {
	Config *config.Config
	View   string
	Format Format
	Logger logger.Logger
	// Fetcher replaces the remote client, for tests.
	Fetcher service.Fetcher
}

// Views expands a --view value into the views to report.
func Views(s string) ([]types.View, error) {
	if strings.EqualFold(strings.TrimSpace(s), ViewAll) {
		return []types.View{types.ViewCompletes, types.ViewS2S}, nil
	}
	v, err := types.ParseView(s)
	if err != nil {
		return nil, err
	}
	return []types.View{v}, nil
}

// Run builds the requested reports and renders them to out.
func Run(ctx context.Context, opts Options, out io.Writer) error {
	if opts.Config == nil {
		opts.Config = config.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	views, err := Views(opts.View)
	if err != nil {
		return err
	}
	if opts.Format == "" {
		opts.Format = FormatTable
	}

	cfg := opts.Config
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = remote.New(
			remote.WithCompletesURL(cfg.CompletesURL),
			remote.WithSummitsURL(cfg.SummitsURL),
			remote.WithS2SURL(cfg.S2SURL),
			remote.WithTimeout(cfg.HTTPTimeout()),
			remote.WithLogger(opts.Logger.Named("remote")),
		)
	}

	svc := service.New(
		service.WithFetcher(fetcher),
		service.WithUserID(cfg.UserID),
		service.WithRegion(cfg.Region),
		service.WithLogger(opts.Logger.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	reports, err := svc.Reports(ctx, views...)
	if err != nil {
		return fmt.Errorf("report %s: %w", opts.View, err)
	}
	return Render(out, reports, opts.Format)
}
