package jobsrv

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"golang.org/x/sync/errgroup"
)

// GetProviderStats runs the four counts concurrently. They are independent
// reads and do not share a snapshot.
func (s *JobService) GetProviderStats(ctx context.Context, providerID kernel.UserID) (*job.ProviderStats, error) {
	var stats job.ProviderStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.ActiveJobs, err = s.statsRepo.CountActiveJobs(ctx, providerID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalApplications, err = s.statsRepo.CountApplications(ctx, providerID)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingApplications, err = s.statsRepo.CountPendingApplications(ctx, providerID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalViews, err = s.statsRepo.SumViews(ctx, providerID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errx.Wrap(err, "failed to compute provider stats", errx.TypeInternal)
	}
	return &stats, nil
}
