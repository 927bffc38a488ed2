package applicationsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/google/uuid"
)

// ApplicationService runs the application workflow: apply, decide,
// withdraw. Every state change and its notification commit together.
type ApplicationService struct {
	appRepo  application.Repository
	jobs     application.JobReader
	notifier application.Notifier
	roles    application.RoleResolver
	tx       dbx.Transactor
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	appRepo application.Repository,
	jobs application.JobReader,
	notifier application.Notifier,
	roles application.RoleResolver,
	tx dbx.Transactor,
) *ApplicationService {
	return &ApplicationService{
		appRepo:  appRepo,
		jobs:     jobs,
		notifier: notifier,
		roles:    roles,
		tx:       tx,
	}
}

// CreateApplication applies seekerID to an open job and notifies its
// provider
func (s *ApplicationService) CreateApplication(ctx context.Context, req application.CreateApplicationRequest, seekerID kernel.UserID) (*application.Application, error) {
	if req.JobID.IsEmpty() {
		return nil, application.ErrInvalidRequest().WithDetail("job_id", "required")
	}

	app, err := application.New(kernel.NewApplicationID(uuid.NewString()), seekerID, req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		jobEntity, err := s.jobs.GetByID(ctx, req.JobID)
		if err != nil {
			return errx.Wrap(err, "failed to get job", errx.TypeInternal)
		}

		if !jobEntity.IsOpen() {
			return application.ErrJobClosed().
				WithDetail("job_id", jobEntity.ID.String()).
				WithDetail("status", string(jobEntity.Status))
		}
		if jobEntity.IsOwnedBy(seekerID) {
			return application.ErrSelfApplication().WithDetail("job_id", jobEntity.ID.String())
		}

		exists, err := s.appRepo.Exists(ctx, req.JobID, seekerID)
		if err != nil {
			return errx.Wrap(err, "failed to check existing application", errx.TypeInternal)
		}
		if exists {
			return application.ErrAlreadyExists().WithDetail("job_id", req.JobID.String())
		}

		// The unique constraint settles concurrent applies the check missed.
		if err := s.appRepo.Create(ctx, app); err != nil {
			return errx.Wrap(err, "failed to create application", errx.TypeInternal)
		}

		return s.notify(ctx, jobEntity.ProviderID, app,
			"New Application",
			fmt.Sprintf("Someone has applied to your job %q", jobEntity.Title),
		)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateApplicationStatus records the provider's decision on a pending
// application and notifies the seeker
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, appID kernel.ApplicationID, providerID kernel.UserID, status string) (*application.Application, error) {
	next, ok := application.ParseStatus(status)
	if !ok || (next != application.StatusAccepted && next != application.StatusRejected) {
		return nil, application.ErrInvalidStatus().WithDetail("status", status)
	}

	var app *application.Application
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByID(ctx, appID)
		if err != nil {
			return errx.Wrap(err, "failed to get application", errx.TypeInternal)
		}

		jobEntity, err := s.jobs.GetByID(ctx, app.JobID)
		if err != nil {
			return errx.Wrap(err, "failed to get job", errx.TypeInternal)
		}
		if !jobEntity.IsOwnedBy(providerID) {
			return application.ErrUnauthorized().
				WithDetail("application_id", appID.String()).
				WithDetail("user_id", providerID.String())
		}

		if err := s.transition(ctx, app, next); err != nil {
			return err
		}

		title, message := "Application Accepted",
			fmt.Sprintf("Your application for %q has been accepted!", jobEntity.Title)
		if next == application.StatusRejected {
			title, message = "Application Update",
				fmt.Sprintf("Your application for %q was not selected.", jobEntity.Title)
		}
		return s.notify(ctx, app.SeekerID, app, title, message)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// WithdrawApplication lets a seeker pull back their own pending application
func (s *ApplicationService) WithdrawApplication(ctx context.Context, appID kernel.ApplicationID, seekerID kernel.UserID) (*application.Application, error) {
	var app *application.Application
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByID(ctx, appID)
		if err != nil {
			return errx.Wrap(err, "failed to get application", errx.TypeInternal)
		}
		if !app.IsOwnedBy(seekerID) {
			return application.ErrUnauthorized().
				WithDetail("application_id", appID.String()).
				WithDetail("user_id", seekerID.String())
		}
		return s.transition(ctx, app, application.StatusWithdrawn)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// transition checks the state machine against the loaded row, then writes
// conditionally so a concurrent decision is rejected instead of overwritten.
func (s *ApplicationService) transition(ctx context.Context, app *application.Application, next application.Status) error {
	if err := app.CheckTransition(next); err != nil {
		return err
	}

	now := time.Now()
	ok, err := s.appRepo.TransitionStatus(ctx, app.ID, app.Status, next, now)
	if err != nil {
		return errx.Wrap(err, "failed to update application status", errx.TypeInternal)
	}
	if !ok {
		return application.ErrInvalidStatusTransition().
			WithDetail("application_id", app.ID.String()).
			WithDetail("new_status", next)
	}

	app.Status = next
	app.UpdatedAt = now
	return nil
}

func (s *ApplicationService) notify(ctx context.Context, userID kernel.UserID, app *application.Application, title, message string) error {
	jobID, appID := app.JobID, app.ID
	_, err := s.notifier.Notify(ctx, notification.NotifyRequest{
		UserID:               userID,
		Type:                 notification.TypeApplication,
		Title:                title,
		Message:              message,
		RelatedJobID:         &jobID,
		RelatedApplicationID: &appID,
	})
	return err
}

// ListApplications returns the applications userID sees in the given role
func (s *ApplicationService) ListApplications(ctx context.Context, userID kernel.UserID, role kernel.Role) ([]application.Details, error) {
	var (
		items []application.Details
		err   error
	)
	switch role {
	case kernel.RoleProvider:
		items, err = s.appRepo.ListByProvider(ctx, userID)
	case kernel.RoleSeeker:
		items, err = s.appRepo.ListBySeeker(ctx, userID)
	default:
		return nil, application.ErrInvalidRole().WithDetail("role", role.String())
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}
	if items == nil {
		items = []application.Details{}
	}
	return items, nil
}

// GetApplicationByID returns the application when userID may see it in the
// given role. Applications the caller may not see are reported as absent.
func (s *ApplicationService) GetApplicationByID(ctx context.Context, appID kernel.ApplicationID, userID kernel.UserID, role kernel.Role) (*application.Details, error) {
	details, err := s.appRepo.GetDetails(ctx, appID)
	if err != nil {
		if errx.IsCode(err, application.CodeApplicationNotFound) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to get application", errx.TypeInternal)
	}

	switch role {
	case kernel.RoleSeeker:
		if details.IsOwnedBy(userID) {
			return details, nil
		}
	case kernel.RoleProvider:
		if details.Job != nil && details.Job.IsOwnedBy(userID) {
			return details, nil
		}
	}
	return nil, nil
}

func (s *ApplicationService) HasApplied(ctx context.Context, seekerID kernel.UserID, jobID kernel.JobID) (bool, error) {
	exists, err := s.appRepo.Exists(ctx, jobID, seekerID)
	if err != nil {
		return false, errx.Wrap(err, "failed to check application", errx.TypeInternal)
	}
	return exists, nil
}

// ResolveRole picks the role a request acts in: the explicit one when
// given, else the profile's, else seeker.
func (s *ApplicationService) ResolveRole(ctx context.Context, userID kernel.UserID, requested string) (kernel.Role, error) {
	if requested != "" {
		role, ok := kernel.ParseRole(requested)
		if !ok {
			return "", application.ErrInvalidRole().WithDetail("role", requested)
		}
		return role, nil
	}

	role, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		return "", errx.Wrap(err, "failed to resolve role", errx.TypeInternal)
	}
	if !role.IsValid() {
		return kernel.RoleSeeker, nil
	}
	return role, nil
}
