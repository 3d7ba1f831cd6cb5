package session

import (
	"context"
	"time"

	"venuedesk/authority"

	"github.com/fundwit/go-commons/types"
)

// Session is the resolved identity and permission state of one request.
// Perms are resolved once at login and carried in the signed token, so a
// role change is only observed after the token expires or is reissued.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	Kind     string                `json:"kind"`
	VendorID types.ID              `json:"vendorId,omitempty"`
	RoleID   types.ID              `json:"roleId,omitempty"`
	Perms    authority.Permissions `json:"perms"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
}

// HasPermission is the single capability check: vendor owners are
// implicitly all-powerful, staff hold exactly what their role granted.
func (s *Session) HasPermission(permission string) bool {
	if s.Kind == authority.KindVendor {
		return true
	}
	return s.Perms.Contains(permission)
}

func (s *Session) Clone() Session {
	c := *s
	c.Perms = append(authority.Permissions{}, s.Perms...)
	return c
}
