package domain

import "time"

// Module is a content scope. Posts tagged with a module are visible only
// to students holding a grant for it.
type Module struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	CourseID *int64 `json:"course_id,omitempty"`
}

// Subscription is an explicit scope grant, independent from enrollment.
// The (student, module) pair is unique per grant source.
type Subscription struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id,omitempty"`
	ModuleID   int64     `json:"module_id,omitempty"`
	ModuleName string    `json:"module_name,omitempty"`
	ModuleCode string    `json:"code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
