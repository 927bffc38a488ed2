package profile

import (
	"context"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Repository interface {
	// Create inserts the profile unless one with the same ID exists.
	// It reports whether a row was written.
	Create(ctx context.Context, p *Profile) (bool, error)

	// GetByID returns ErrProfileNotFound when absent
	GetByID(ctx context.Context, id kernel.UserID) (*Profile, error)

	Update(ctx context.Context, p *Profile) error
}

type PreferencesRepository interface {
	// Get returns ErrPrefsNotFound when the user never saved preferences
	Get(ctx context.Context, userID kernel.UserID) (*Preferences, error)

	Upsert(ctx context.Context, prefs *Preferences) error
}
