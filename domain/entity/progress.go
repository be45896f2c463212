package entity

import "time"

// Progress tracks whether a user finished a module.
type Progress struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ModuleID       string     `json:"module_id"`
	Completed      bool       `json:"completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p *Progress) MarkCompleted(at time.Time) {
	p.Completed = true
	p.CompletionDate = &at
	p.UpdatedAt = at
}
