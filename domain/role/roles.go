package role

import (
	"strings"

	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/idgen"
	"venuedesk/persistence"
	"venuedesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	// RoleDeleteCheckFuncs are consulted inside the delete transaction;
	// the staff store registers its referential-integrity guard here.
	RoleDeleteCheckFuncs []func(r Role, tx *gorm.DB) error
)

// Role is a vendor-owned bundle of catalog permissions assignable to
// staff. (vendor_id, name) is governed by a compound unique index.
type Role struct {
	ID types.ID `json:"id"`

	VendorID types.ID `json:"vendorId" gorm:"unique_index:uni_vendor_name"`
	Name     string   `json:"name" gorm:"unique_index:uni_vendor_name"`

	Description string                `json:"description"`
	Permissions authority.Permissions `json:"permissions" sql:"type:TEXT"`
	IsActive    bool                  `json:"isActive" gorm:"default:true"`

	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type RoleCreation struct {
	Name        string   `json:"name" binding:"required,lte=64"`
	Description string   `json:"description" binding:"omitempty,lte=255"`
	Permissions []string `json:"permissions" binding:"required"`
}

type RoleUpdating struct {
	Name        *string   `json:"name" binding:"omitempty,lte=64"`
	Description *string   `json:"description" binding:"omitempty,lte=255"`
	Permissions *[]string `json:"permissions"`
	IsActive    *bool     `json:"isActive"`
}

type RoleQuery struct {
	IsActive *bool `json:"isActive" form:"isActive"`
}

type AvailablePermissions struct {
	Permissions authority.Permissions `json:"permissions"`
	Categories  []authority.Category  `json:"categories"`
	Templates   []authority.Template  `json:"templates"`
}

var (
	roleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateRoleFunc                = CreateRole
	QueryRolesFunc                = QueryRoles
	DetailRoleFunc                = DetailRole
	UpdateRoleFunc                = UpdateRole
	DeleteRoleFunc                = DeleteRole
	QueryAvailablePermissionsFunc = QueryAvailablePermissions
)

// normalizePermissions trims, deduplicates and cross-checks the supplied
// permission strings against the catalog. A typo'd permission would
// otherwise create a role that can never gate anything.
func normalizePermissions(raw []string) (authority.Permissions, error) {
	perms := authority.Permissions(raw).Normalize()
	if len(perms) == 0 {
		return nil, bizerror.ErrEmptyPermissions
	}
	if unknown := perms.Unknown(); len(unknown) > 0 {
		return nil, &bizerror.ErrUnknownPermissions{Permissions: unknown}
	}
	return perms, nil
}

func CreateRole(c RoleCreation, sec *session.Session) (*Role, error) {
	if sec.VendorID == 0 {
		return nil, bizerror.ErrForbidden
	}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, bizerror.ErrEmptyRoleName
	}
	perms, err := normalizePermissions(c.Permissions)
	if err != nil {
		return nil, err
	}

	r := Role{ID: idgen.NextID(roleIdWorker), VendorID: sec.VendorID, Name: name,
		Description: strings.TrimSpace(c.Description), Permissions: perms, IsActive: true,
		CreatorID: sec.Identity.ID, CreateTime: types.CurrentTimestamp()}

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	existing := Role{}
	err = db.Model(&Role{}).Where(&Role{VendorID: sec.VendorID, Name: name}).First(&existing).Error
	if err == nil {
		return nil, &bizerror.ErrConflict{Code: "role.name_existed", Message: "role name already exists"}
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	// the unique index answers concurrent creations of the same name
	if err := db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func QueryRoles(q RoleQuery, sec *session.Session) ([]Role, error) {
	if sec.VendorID == 0 {
		return nil, bizerror.ErrForbidden
	}

	roles := []Role{}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context).
		Where("vendor_id = ?", sec.VendorID).Order("id DESC")
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if err := db.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// DetailRole answers cross-vendor ids exactly as absent ids do, so role
// existence never leaks across vendor boundaries.
func DetailRole(id types.ID, sec *session.Session) (*Role, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	return FindRoleInVendor(db, id, sec.VendorID)
}

func FindRoleInVendor(db *gorm.DB, id, vendorId types.ID) (*Role, error) {
	if vendorId == 0 {
		return nil, bizerror.ErrForbidden
	}
	r := Role{}
	if err := db.Where("id = ? AND vendor_id = ?", id, vendorId).First(&r).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func UpdateRole(id types.ID, u RoleUpdating, sec *session.Session) (*Role, error) {
	var updated *Role
	err := persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		r, err := FindRoleInVendor(tx, id, sec.VendorID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return bizerror.ErrEmptyRoleName
			}
			if name != r.Name {
				existing := Role{}
				err := tx.Model(&Role{}).Where("vendor_id = ? AND name = ? AND id != ?", sec.VendorID, name, id).
					First(&existing).Error
				if err == nil {
					return &bizerror.ErrConflict{Code: "role.name_existed", Message: "role name already exists"}
				}
				if !gorm.IsRecordNotFoundError(err) {
					return err
				}
			}
			changes["name"] = name
		}
		if u.Description != nil {
			changes["description"] = strings.TrimSpace(*u.Description)
		}
		if u.Permissions != nil {
			perms, err := normalizePermissions(*u.Permissions)
			if err != nil {
				return err
			}
			value, err := perms.Value()
			if err != nil {
				return err
			}
			changes["permissions"] = value
		}
		if u.IsActive != nil {
			changes["is_active"] = *u.IsActive
		}

		if len(changes) > 0 {
			if err := tx.Model(&Role{}).Where("id = ? AND vendor_id = ?", id, sec.VendorID).
				Updates(changes).Error; err != nil {
				return err
			}
		}

		updated, err = FindRoleInVendor(tx, id, sec.VendorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRole hard-deletes a role, unless non-deleted staff still
// reference it.
func DeleteRole(id types.ID, sec *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		r, err := FindRoleInVendor(tx, id, sec.VendorID)
		if err != nil {
			return err
		}

		for _, check := range RoleDeleteCheckFuncs {
			if err := check(*r, tx); err != nil {
				return err
			}
		}

		return tx.Delete(Role{}, "id = ? AND vendor_id = ?", id, sec.VendorID).Error
	})
}

func QueryAvailablePermissions(sec *session.Session) (*AvailablePermissions, error) {
	if sec.Kind != authority.KindVendor {
		return nil, bizerror.ErrForbidden
	}
	return &AvailablePermissions{
		Permissions: authority.Catalog(),
		Categories:  authority.Categories(),
		Templates:   authority.Templates(),
	}, nil
}
