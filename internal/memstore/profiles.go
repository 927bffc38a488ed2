package memstore

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// ProfileRepository implements profile.Repository
type ProfileRepository struct{ s *Store }

func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (bool, error) {
	created := false
	err := r.s.write(ctx, func(d *state) error {
		if _, ok := d.profiles[p.ID]; ok {
			return nil
		}
		set(d, d.profiles, p.ID, *p)
		created = true
		return nil
	})
	return created, err
}

func (r *ProfileRepository) GetByID(_ context.Context, id kernel.UserID) (*profile.Profile, error) {
	var out *profile.Profile
	err := r.s.read(func(d *state) error {
		p, ok := d.profiles[id]
		if !ok {
			return profile.ErrProfileNotFound().WithDetail("profile_id", id.String())
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.profiles[p.ID]; !ok {
			return profile.ErrProfileNotFound().WithDetail("profile_id", p.ID.String())
		}
		set(d, d.profiles, p.ID, *p)
		return nil
	})
}

// PreferencesRepository implements profile.PreferencesRepository
type PreferencesRepository struct{ s *Store }

func (s *Store) Preferences() *PreferencesRepository { return &PreferencesRepository{s: s} }

func (r *PreferencesRepository) Get(_ context.Context, userID kernel.UserID) (*profile.Preferences, error) {
	var out *profile.Preferences
	err := r.s.read(func(d *state) error {
		prefs, ok := d.preferences[userID]
		if !ok {
			return profile.ErrPrefsNotFound()
		}
		out = &prefs
		return nil
	})
	return out, err
}

func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *profile.Preferences) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.profiles[prefs.UserID]; !ok {
			return profile.ErrProfileNotFound().WithDetail("profile_id", prefs.UserID.String())
		}
		set(d, d.preferences, prefs.UserID, *prefs)
		return nil
	})
}
