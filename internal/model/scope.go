package model

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleOperator   = "OPERATOR"
	RoleViewer     = "VIEWER"
)

type Scope struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"` // ADMIN, SUPERVISOR, OPERATOR or VIEWER
}

// IsAdmin checks if the scope has admin role
func (s Scope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanApprove reports whether the scope may decide gated actions.
func (s Scope) CanApprove() bool {
	return s.Role == RoleAdmin || s.Role == RoleSupervisor
}

// CanOperate reports whether the scope may change NDRs, rules or send outreach.
func (s Scope) CanOperate() bool {
	return s.CanApprove() || s.Role == RoleOperator
}
