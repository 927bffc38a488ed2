package profile

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Profile struct {
	ID           kernel.UserID `db:"id" json:"id"`
	Email        kernel.Email  `db:"email" json:"email"`
	FullName     *string       `db:"full_name" json:"full_name"`
	Role         kernel.Role   `db:"role" json:"role"`
	Location     *string       `db:"location" json:"location"`
	AvatarURL    *string       `db:"avatar_url" json:"avatar_url"`
	Phone        *string       `db:"phone" json:"phone"`
	Bio          *string       `db:"bio" json:"bio"`
	Skills       kernel.Skills `db:"skills" json:"skills"`
	Availability *string       `db:"availability" json:"availability"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Summary is the public display information attached to jobs and
// applications.
type Summary struct {
	FullName  *string `db:"full_name" json:"full_name"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
	Location  *string `db:"location" json:"location"`
}

// Theme values accepted in preferences.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

type Preferences struct {
	UserID             kernel.UserID   `db:"user_id" json:"user_id"`
	EmailNotifications bool            `db:"email_notifications" json:"email_notifications"`
	PushNotifications  bool            `db:"push_notifications" json:"push_notifications"`
	Theme              string          `db:"theme" json:"theme"`
	DefaultFilters     json.RawMessage `db:"default_filters" json:"default_filters,omitempty"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// DefaultPreferences is what a user gets before saving any settings.
func DefaultPreferences(userID kernel.UserID) *Preferences {
	return &Preferences{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		Theme:              ThemeSystem,
	}
}

func IsValidTheme(theme string) bool {
	switch theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// ============================================================================
// Domain Methods
// ============================================================================

// NewFromIdentity builds the profile created on a user's first request.
// The display name defaults to the local part of the email.
func NewFromIdentity(id kernel.UserID, email kernel.Email) *Profile {
	now := time.Now()
	p := &Profile{
		ID:        id,
		Email:     email,
		Skills:    kernel.Skills{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if local, _, ok := strings.Cut(email.String(), "@"); ok && local != "" {
		p.FullName = &local
	}
	return p
}

func (p *Profile) IsProvider() bool {
	return p.Role == kernel.RoleProvider
}

func (p *Profile) IsSeeker() bool {
	return p.Role == kernel.RoleSeeker
}

func (p *Profile) IsOwnedBy(userID kernel.UserID) bool {
	return p.ID == userID
}

func (p *Profile) Summary() *Summary {
	return &Summary{
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		Location:  p.Location,
	}
}

// ApplyUpdate applies a partial update. Blank optional text clears the field.
func (p *Profile) ApplyUpdate(req UpdateProfileRequest) error {
	if req.Role != nil {
		role, ok := kernel.ParseRole(*req.Role)
		if !ok {
			return ErrInvalidRole().WithDetail("role", *req.Role)
		}
		p.Role = role
	}
	if req.FullName != nil {
		p.FullName = kernel.TrimPtr(req.FullName)
	}
	if req.Location != nil {
		p.Location = kernel.TrimPtr(req.Location)
	}
	if req.Phone != nil {
		p.Phone = kernel.TrimPtr(req.Phone)
	}
	if req.Bio != nil {
		p.Bio = kernel.TrimPtr(req.Bio)
	}
	if req.Availability != nil {
		p.Availability = kernel.TrimPtr(req.Availability)
	}
	if req.Skills != nil {
		p.Skills = kernel.Skills(*req.Skills).Normalize()
	}
	p.UpdatedAt = time.Now()
	return nil
}

// ApplyUpdate applies a partial preferences update.
func (p *Preferences) ApplyUpdate(req UpdatePreferencesRequest) error {
	if req.Theme != nil {
		if !IsValidTheme(*req.Theme) {
			return ErrInvalidTheme().WithDetail("theme", *req.Theme)
		}
		p.Theme = *req.Theme
	}
	if req.EmailNotifications != nil {
		p.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		p.PushNotifications = *req.PushNotifications
	}
	if req.DefaultFilters != nil {
		p.DefaultFilters = *req.DefaultFilters
	}
	p.UpdatedAt = time.Now()
	return nil
}
