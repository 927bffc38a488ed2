package application

import "github.com/Abraxas-365/bitwork/pkg/kernel"

// CreateApplicationRequest - DTO for applying to a job
type CreateApplicationRequest struct {
	JobID        kernel.JobID `json:"job_id"`
	CoverLetter  *string      `json:"cover_letter,omitempty"`
	ProposedRate *int         `json:"proposed_rate,omitempty"`
	Availability *string      `json:"availability,omitempty"`
}

// UpdateStatusRequest - DTO for a provider's decision
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type HasAppliedResponse struct {
	HasApplied bool `json:"has_applied"`
}
