package kernel

import "strings"

// Role is the marketplace side a profile acts on. It is stored as free text
// on the profile, so parsing is lenient about case and whitespace.
type Role string

const (
	RoleProvider Role = "provider" // posts jobs
	RoleSeeker   Role = "seeker"   // applies to jobs
)

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", false
	}
	return r, true
}

func (r Role) IsValid() bool {
	return r == RoleProvider || r == RoleSeeker
}

func (r Role) String() string { return string(r) }

type Email string

func (e Email) String() string { return string(e) }

// Skills is an ordered list of free-text skill labels.
type Skills []string

// Normalize trims entries, drops empties and removes case-insensitive
// duplicates while keeping the first occurrence's order.
func (s Skills) Normalize() Skills {
	out := make(Skills, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, skill := range s {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// TrimPtr trims an optional string and maps blank values to nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
