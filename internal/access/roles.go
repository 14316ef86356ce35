package access

// Role names a fixed permission set.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleClerk  Role = "clerk"
)

// Action is a permission checked before a mutation or read.
type Action string

const (
	ActionAddPatient    Action = "add_patient"
	ActionAddDoctor     Action = "add_doctor"
	ActionSchedule      Action = "schedule"
	ActionCancel        Action = "cancel"
	ActionComplete      Action = "complete"
	ActionViewRecords   Action = "view_records"
	ActionAddUser       Action = "add_user"
	ActionResetPassword Action = "reset_password"
)

var rolePermissions = map[Role][]Action{
	RoleAdmin: {
		ActionAddPatient,
		ActionAddDoctor,
		ActionSchedule,
		ActionCancel,
		ActionComplete,
		ActionViewRecords,
		ActionAddUser,
		ActionResetPassword,
	},
	RoleDoctor: {ActionSchedule, ActionCancel, ActionComplete, ActionViewRecords},
	RoleClerk:  {ActionAddPatient, ActionAddDoctor, ActionSchedule, ActionCancel, ActionViewRecords},
}

// Allowed reports whether role grants action. Unknown roles grant nothing.
func Allowed(role Role, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the role's permission list.
func Permissions(role Role) []Action {
	return append([]Action(nil), rolePermissions[role]...)
}

// KnownRole reports whether role is one of the fixed roles.
func KnownRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}
