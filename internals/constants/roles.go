package constants

// Staff role variants stored on teachers.type.
const (
	RoleAdmin        = "admin"
	RolePrincipal    = "principal"
	RoleClassTeacher = "class_teacher"
)

// Attendance statuses stored on attendance_entries.status.
const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusNotMarked = "not_marked"
)

// AllStaff is the role set allowed on school-scoped read endpoints.
var AllStaff = []string{RoleAdmin, RolePrincipal, RoleClassTeacher}

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusNotMarked:
		return true
	}
	return false
}
