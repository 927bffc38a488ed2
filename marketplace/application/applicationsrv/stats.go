package applicationsrv

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"golang.org/x/sync/errgroup"
)

// GetSeekerStats counts the seeker's applications overall and per decided
// status, concurrently
func (s *ApplicationService) GetSeekerStats(ctx context.Context, seekerID kernel.UserID) (*application.SeekerStats, error) {
	var stats application.SeekerStats
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, status *application.Status) {
		g.Go(func() (err error) {
			*dst, err = s.appRepo.CountBySeeker(ctx, seekerID, status)
			return err
		})
	}

	pending, accepted, rejected := application.StatusPending, application.StatusAccepted, application.StatusRejected
	count(&stats.TotalApplications, nil)
	count(&stats.PendingApplications, &pending)
	count(&stats.AcceptedApplications, &accepted)
	count(&stats.RejectedApplications, &rejected)

	if err := g.Wait(); err != nil {
		return nil, errx.Wrap(err, "failed to compute seeker stats", errx.TypeInternal)
	}
	return &stats, nil
}
