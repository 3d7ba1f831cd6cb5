package sessions

import (
	"context"

	"venuedesk/account"
	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/common"
	"venuedesk/domain/role"
	"venuedesk/domain/staff"
	"venuedesk/persistence"
	"venuedesk/session"

	"github.com/jinzhu/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var (
	LoginFunc      = Login
	StaffLoginFunc = StaffLogin
)

// Login resolves a principal across both stores: direct users first,
// vendor staff second. Unknown email and wrong password produce the
// same generic answer so accounts cannot be enumerated.
func Login(l LoginRequest, ctx context.Context) (*session.Session, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	user, err := account.FindUserByEmail(db, l.Email)
	if err == nil {
		return loginUser(user, l.Password, ctx)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	return StaffLogin(l, ctx)
}

// StaffLogin serves the vendor back office surface; it never consults
// the user store.
func StaffLogin(l LoginRequest, ctx context.Context) (*session.Session, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	s, err := staff.FindStaffByEmail(db, l.Email)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			common.Log.Warnf("login rejected, unknown email %s", account.NormalizeEmail(l.Email))
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}
	return loginStaff(s, l.Password, ctx)
}

// loginUser gates account state before the password is even looked at;
// each gate failure keeps its own reason while sharing one status.
func loginUser(user *account.User, password string, ctx context.Context) (*session.Session, error) {
	if user.IsDeleted {
		common.Log.Warnf("login rejected, account %d is deleted", user.ID)
		return nil, bizerror.ErrAccountDeleted
	}
	if !user.IsActive {
		common.Log.Warnf("login rejected, account %d is inactive", user.ID)
		return nil, bizerror.ErrAccountInactive
	}
	if err := account.VerifyPassword(user.Secret, password); err != nil {
		common.Log.Warnf("login rejected, wrong password for account %d", user.ID)
		return nil, bizerror.ErrUnauthenticated
	}

	return IssueSession(user, ctx)
}

func loginStaff(s *staff.Staff, password string, ctx context.Context) (*session.Session, error) {
	if s.IsDeleted {
		common.Log.Warnf("login rejected, staff %d is deleted", s.ID)
		return nil, bizerror.ErrAccountDeleted
	}
	if !s.IsActive {
		common.Log.Warnf("login rejected, staff %d is inactive", s.ID)
		return nil, bizerror.ErrAccountInactive
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	r, err := role.FindRoleInVendor(db, s.RoleID, s.VendorID)
	if err != nil || !r.IsActive {
		common.Log.Warnf("login rejected, staff %d has a missing or inactive role", s.ID)
		return nil, bizerror.ErrRoleInactive
	}

	if err := account.VerifyPassword(s.Secret, password); err != nil {
		common.Log.Warnf("login rejected, wrong password for staff %d", s.ID)
		return nil, bizerror.ErrUnauthenticated
	}

	sec := session.Session{
		Identity: session.Identity{ID: s.ID, Name: s.Name, Email: s.Email},
		Kind:     authority.KindVendorStaff,
		VendorID: s.VendorID,
		RoleID:   s.RoleID,
		Perms:    append(authority.Permissions{}, r.Permissions...),
	}
	return signSession(&sec)
}

// IssueSession resolves the permission set of a direct user and signs
// the token. Vendor owners receive the full catalog; an owner's vendor
// scope is their own account id.
func IssueSession(user *account.User, ctx context.Context) (*session.Session, error) {
	sec := session.Session{
		Identity: session.Identity{ID: user.ID, Name: user.Name, Email: user.Email},
		Kind:     user.Kind,
		Perms:    authority.Permissions{},
	}
	if user.Kind == authority.KindVendor {
		sec.VendorID = user.ID
		sec.Perms = authority.Catalog()
	}
	return signSession(&sec)
}

func signSession(sec *session.Session) (*session.Session, error) {
	token, err := session.SignSession(sec)
	if err != nil {
		return nil, err
	}
	sec.Token = token
	return sec, nil
}
