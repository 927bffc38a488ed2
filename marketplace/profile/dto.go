package profile

import (
	"encoding/json"
	"io"
)

// UpdateProfileRequest - partial profile update; nil fields are left as is
type UpdateProfileRequest struct {
	FullName     *string   `json:"full_name,omitempty"`
	Role         *string   `json:"role,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Availability *string   `json:"availability,omitempty"`
}

// UpdatePreferencesRequest - partial settings update
type UpdatePreferencesRequest struct {
	EmailNotifications *bool            `json:"email_notifications,omitempty"`
	PushNotifications  *bool            `json:"push_notifications,omitempty"`
	Theme              *string          `json:"theme,omitempty"`
	DefaultFilters     *json.RawMessage `json:"default_filters,omitempty"`
}

// AvatarUpload is an image received from a multipart form.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
