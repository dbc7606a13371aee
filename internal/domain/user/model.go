package user

import "time"

// Role is a coarse permission flag. Only simple flag checks are performed.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleCollaborator   Role = "collaborator"
	RoleQualityControl Role = "quality_control"
	RoleClient         Role = "client"
)

// User is a member of the firm (or a client login).
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         Role       `json:"role"`
	Team         string     `json:"team,omitempty"`
	InternalCost float64    `json:"internal_cost"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
}

func (u User) EntityID() string { return u.ID }

func (u User) Normalized() User { return u }

// FullName returns "First Last".
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CanCompleteMission reports whether u may close a mission managed by managerID.
func (u User) CanCompleteMission(managerID string) bool {
	return u.Role == RoleAdmin || u.Role == RoleManager || (managerID != "" && u.ID == managerID)
}

// CanReopenMission reports whether u may reopen a completed mission.
func (u User) CanReopenMission() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

// CanReviewTime reports whether u may approve or reject time entries.
func (u User) CanReviewTime() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager || u.Role == RoleQualityControl
}
