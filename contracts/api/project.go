package api

import (
	"errors"
	"strings"
	"time"
)

// Contact is a single reachable person attached to a project.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Project struct {
	ID                 int        `json:"id"`
	Name               string     `json:"name"`
	Managers           []Contact  `json:"managers"`
	UpstreamContacts   []Contact  `json:"upstream_contacts"`
	DownstreamContacts []Contact  `json:"downstream_contacts"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateProjectRequest is the typed body accepted by POST /api/projects.
type CreateProjectRequest struct {
	Name               string     `json:"name"`
	Managers           []Contact  `json:"managers"`
	UpstreamContacts   []Contact  `json:"upstream_contacts"`
	DownstreamContacts []Contact  `json:"downstream_contacts"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
}

func (r *CreateProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("Project name is required")
	}
	return nil
}

// ApplyDefaults fills the optional contact lists so the stored row never
// carries SQL nulls for them.
func (r *CreateProjectRequest) ApplyDefaults() {
	if r.Managers == nil {
		r.Managers = []Contact{}
	}
	if r.UpstreamContacts == nil {
		r.UpstreamContacts = []Contact{}
	}
	if r.DownstreamContacts == nil {
		r.DownstreamContacts = []Contact{}
	}
}

// UpdateProjectRequest carries a partial overwrite; nil fields are left
// untouched. An explicitly empty name is passed through unchanged.
type UpdateProjectRequest struct {
	Name               *string    `json:"name"`
	Managers           *[]Contact `json:"managers"`
	UpstreamContacts   *[]Contact `json:"upstream_contacts"`
	DownstreamContacts *[]Contact `json:"downstream_contacts"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
}
