package kernel

import "github.com/google/uuid"

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// ValidID reports whether s is a well formed identifier. Every entity uses
// UUID keys, so malformed path parameters can be rejected before a query.
func ValidID(s string) bool {
	return uuid.Validate(s) == nil
}
