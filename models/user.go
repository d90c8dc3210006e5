package models

// UserRole приходит в JWT от внешнего сервиса авторизации.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// IsStaff reports whether the role may change brackets and results.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleOrganizer
}
