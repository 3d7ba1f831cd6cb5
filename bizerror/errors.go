package bizerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidPassword = errors.New("invalid password")

	// login gate failures, all answered with 403 but distinct codes
	ErrAccountDeleted  = errors.New("account deleted")
	ErrAccountInactive = errors.New("inactive account")
	ErrRoleInactive    = errors.New("inactive role")

	ErrInactiveRoleAssignment = errors.New("cannot assign inactive role")
	ErrEmptyPermissions       = errors.New("permissions must be non-empty")
	ErrEmptyRoleName          = errors.New("role name must be non-empty")

	ErrTooManyRequests = errors.New("too many requests")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrConflict reports a uniqueness violation detected before the unique
// index gets a chance to.
type ErrConflict struct {
	Code    string
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
func (e *ErrConflict) Respond() *BizErrorDetail {
	code := e.Code
	if code == "" {
		code = "common.conflict"
	}
	return &BizErrorDetail{Status: http.StatusConflict, Code: code, Message: e.Message, Data: nil}
}

// ErrRoleInUse blocks role deletion while non-deleted staff still
// reference the role.
type ErrRoleInUse struct {
	Count int
}

func (e *ErrRoleInUse) Error() string {
	return fmt.Sprintf("%d staff member(s) are using this role", e.Count)
}
func (e *ErrRoleInUse) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "role.in_use", Message: e.Error(), Data: e.Count}
}

// ErrUnknownPermissions reports permission strings outside the catalog.
type ErrUnknownPermissions struct {
	Permissions []string
}

func (e *ErrUnknownPermissions) Error() string {
	return fmt.Sprintf("unknown permissions: %v", e.Permissions)
}
func (e *ErrUnknownPermissions) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "authority.unknown_permissions", Message: e.Error(), Data: e.Permissions}
}
