// Package session carries the resolved caller identity through every
// operation as an explicit value, checked at the API boundary rather than
// read from ambient state.
package session

import "okeanmarket/internal/domain"

// Context identifies one request's caller. UserID is the shopper's Telegram
// numeric id (guest ids included; display convenience, not authentication).
// Staff is set only after a credentialed courier/admin login.
type Context struct {
	SID    string
	UserID *int64
	Staff  *domain.StaffUser
}

func (c Context) Role() domain.Role {
	if c.Staff != nil {
		return c.Staff.Role
	}
	return domain.RoleShopper
}

func (c Context) IsCourier() bool { return c.Staff != nil && c.Staff.Role == domain.RoleCourier }
func (c Context) IsAdmin() bool   { return c.Staff != nil && c.Staff.Role == domain.RoleAdmin }

// CourierID returns the staff id for courier-scoped operations, empty for
// everyone else.
func (c Context) CourierID() string {
	if c.IsCourier() {
		return c.Staff.ID
	}
	return ""
}
