package user

type Permission string

const (
	// Attendance
	PermissionAttendanceRegister Permission = "attendance.register"
	PermissionAttendanceViewOwn  Permission = "attendance.view_own"
	PermissionAttendanceViewAll  Permission = "attendance.view_all"
	PermissionAttendanceApprove  Permission = "attendance.approve"
	PermissionAttendanceDelete   Permission = "attendance.delete"

	// Schedules and tolerance
	PermissionScheduleView    Permission = "schedule.view"
	PermissionScheduleManage  Permission = "schedule.manage"
	PermissionToleranceManage Permission = "tolerance.manage"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceRegister,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionAttendanceDelete,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionToleranceManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionEmployeeViewAll,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionScheduleView,
	},
	RoleKiosk: {
		// Kiosks only register and preview
		PermissionAttendanceRegister,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
