package entity

import "time"

// Record is one enrolled identity. Username is immutable and doubles as the
// directory name and the image filename stem.
type Record struct {
	Username   string `json:"username"`
	NationalID string `json:"nationalId,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Government string `json:"government,omitempty"`
	Status     Status `json:"status"`
	Image      string `json:"image,omitempty"`

	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
	PausedAt   *time.Time `json:"pausedAt,omitempty"`
}

// Merge overlays non-empty identity fields of other onto r. Status, image and
// timestamps are lifecycle-owned and never merged.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	if other.NationalID != "" {
		r.NationalID = other.NationalID
	}
	if other.Name != "" {
		r.Name = other.Name
	}
	if other.Department != "" {
		r.Department = other.Department
	}
	if other.Government != "" {
		r.Government = other.Government
	}
}
