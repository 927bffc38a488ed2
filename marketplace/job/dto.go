package job

import (
	"fmt"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    *string  `json:"category,omitempty"`
	Budget      *int     `json:"budget,omitempty"`
	HourlyRate  *int     `json:"hourly_rate,omitempty"`
	State       *string  `json:"state,omitempty"`
	City        *string  `json:"city,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	HasTimeline bool     `json:"has_timeline,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// UpdateJobRequest - DTO for a partial update; nil fields are left as is
type UpdateJobRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Budget      *int      `json:"budget,omitempty"`
	HourlyRate  *int      `json:"hourly_rate,omitempty"`
	State       *string   `json:"state,omitempty"`
	City        *string   `json:"city,omitempty"`
	Duration    *string   `json:"duration,omitempty"`
	HasTimeline *bool     `json:"has_timeline,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Status      *string   `json:"status,omitempty"`
}

// Listing page defaults.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// ListFilters - DTO for the public job search
type ListFilters struct {
	Category  *string
	City      *string
	State     *string
	MinBudget *int
	MaxBudget *int
	Status    Status
	Page      int
	Limit     int
}

// Normalize applies defaults and validates the filters.
func (f ListFilters) Normalize() (ListFilters, error) {
	if f.Status == "" {
		f.Status = StatusOpen
	}
	if !f.Status.IsValid() {
		return f, ErrInvalidStatus().WithDetail("status", string(f.Status))
	}
	if f.MinBudget != nil && f.MaxBudget != nil && *f.MinBudget > *f.MaxBudget {
		return f, ErrInvalidFilter().WithDetail("reason", "minBudget is greater than maxBudget")
	}
	f.Category = kernel.TrimPtr(f.Category)
	f.City = kernel.TrimPtr(f.City)
	f.State = kernel.TrimPtr(f.State)

	p := f.Pagination()
	f.Page, f.Limit = p.Page, p.PageSize
	return f, nil
}

func (f ListFilters) Pagination() kernel.PaginationOptions {
	return kernel.PaginationOptions{Page: f.Page, PageSize: f.Limit}.Normalize(DefaultPageSize, MaxPageSize)
}

// CacheKey identifies a normalized filter set.
func (f ListFilters) CacheKey() string {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *int) string {
		if p == nil {
			return ""
		}
		return fmt.Sprint(*p)
	}
	return fmt.Sprintf("s=%s|c=%s|ci=%s|st=%s|min=%s|max=%s|p=%d|l=%d",
		f.Status, str(f.Category), str(f.City), str(f.State),
		num(f.MinBudget), num(f.MaxBudget), f.Page, f.Limit)
}

// SaveResponse - the bookmark state after a toggle
type SaveResponse struct {
	Saved bool `json:"saved"`
}
