package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Reviews attendance, manages schedules
	RoleEmployee Role = "employee" // Regular employee
	RoleKiosk    Role = "kiosk"    // Attendance terminal, registers on behalf of employees
)

var RoleValues = []string{
	string(RoleOwner),
	string(RoleManager),
	string(RoleEmployee),
	string(RoleKiosk),
}

// IsManager checks if role is manager or owner
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
