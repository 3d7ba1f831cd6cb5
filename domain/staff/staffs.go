package staff

import (
	"strings"

	"venuedesk/account"
	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/client/s3"
	"venuedesk/common"
	"venuedesk/domain/role"
	"venuedesk/idgen"
	"venuedesk/persistence"
	"venuedesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// Staff is an employee account scoped to one vendor. Deletion is a soft
// flag only; the record stays for auditability and is excluded from
// listing and login. (vendor_id, email) is governed by a compound unique
// index.
type Staff struct {
	ID types.ID `json:"id"`

	VendorID types.ID `json:"vendorId" gorm:"unique_index:uni_vendor_email"`
	Email    string   `json:"email" gorm:"unique_index:uni_vendor_email"`

	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Secret   string   `json:"-"`
	RoleID   types.ID `json:"roleId"`
	Location string   `json:"location"`
	Gender   string   `json:"gender"`
	ImageKey string   `json:"imageKey"`

	IsActive  bool `json:"isActive" gorm:"default:true"`
	IsDeleted bool `json:"isDeleted" gorm:"default:false"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// StaffDetail carries the staff record with its role resolved for
// listing in the back office.
type StaffDetail struct {
	Staff
	RoleName        string                `json:"roleName"`
	RolePermissions authority.Permissions `json:"rolePermissions"`
}

type StaffCreation struct {
	Name     string   `json:"name" binding:"required,lte=64"`
	Phone    string   `json:"phone" binding:"required,lte=32"`
	Email    string   `json:"email" binding:"required,email,lte=128"`
	Password string   `json:"password" binding:"required,gte=6,lte=64"`
	RoleID   types.ID `json:"roleId" binding:"required"`
	Location string   `json:"location" binding:"omitempty,lte=128"`
	Gender   string   `json:"gender" binding:"omitempty,oneof=male female other"`
	ImageKey string   `json:"imageKey" binding:"omitempty,lte=255"`
}

type StaffUpdating struct {
	Name     *string   `json:"name" binding:"omitempty,lte=64"`
	Phone    *string   `json:"phone" binding:"omitempty,lte=32"`
	Email    *string   `json:"email" binding:"omitempty,email,lte=128"`
	Password *string   `json:"password" binding:"omitempty,gte=6,lte=64"`
	RoleID   *types.ID `json:"roleId"`
	Location *string   `json:"location" binding:"omitempty,lte=128"`
	Gender   *string   `json:"gender" binding:"omitempty,oneof=male female other"`
	ImageKey *string   `json:"imageKey" binding:"omitempty,lte=255"`
	IsActive *bool     `json:"isActive"`
}

type StaffQuery struct {
	IsActive *bool     `json:"isActive" form:"isActive"`
	RoleID   *types.ID `json:"roleId" form:"roleId"`
}

var (
	staffIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateStaffFunc = CreateStaff
	QueryStaffsFunc = QueryStaffs
	DetailStaffFunc = DetailStaff
	UpdateStaffFunc = UpdateStaff
	DeleteStaffFunc = DeleteStaff
)

func init() {
	role.RoleDeleteCheckFuncs = append(role.RoleDeleteCheckFuncs, checkRoleNotReferenced)
}

func checkRoleNotReferenced(r role.Role, tx *gorm.DB) error {
	var count int
	if err := tx.Model(&Staff{}).
		Where("role_id = ? AND vendor_id = ? AND is_deleted = ?", r.ID, r.VendorID, false).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &bizerror.ErrRoleInUse{Count: count}
	}
	return nil
}

// resolveAssignableRole enforces that the role exists, belongs to the
// vendor and is active before it can be assigned.
func resolveAssignableRole(tx *gorm.DB, roleId, vendorId types.ID) (*role.Role, error) {
	r, err := role.FindRoleInVendor(tx, roleId, vendorId)
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, bizerror.ErrInactiveRoleAssignment
	}
	return r, nil
}

func CreateStaff(c StaffCreation, sec *session.Session) (*Staff, error) {
	if sec.VendorID == 0 {
		return nil, bizerror.ErrForbidden
	}

	email := account.NormalizeEmail(c.Email)
	secret, err := account.HashPassword(c.Password)
	if err != nil {
		return nil, err
	}

	s := Staff{ID: idgen.NextID(staffIdWorker), VendorID: sec.VendorID, Email: email,
		Name: strings.TrimSpace(c.Name), Phone: strings.TrimSpace(c.Phone), Secret: secret,
		RoleID: c.RoleID, Location: strings.TrimSpace(c.Location), Gender: c.Gender, ImageKey: c.ImageKey,
		IsActive: true, CreateTime: types.CurrentTimestamp()}

	err = persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := resolveAssignableRole(tx, c.RoleID, sec.VendorID); err != nil {
			return err
		}

		existing := Staff{}
		err := tx.Model(&Staff{}).Where("vendor_id = ? AND email = ?", sec.VendorID, email).First(&existing).Error
		if err == nil {
			return &bizerror.ErrConflict{Code: "staff.email_existed", Message: "staff email already exists"}
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		// the unique index answers concurrent creations of the same email
		return tx.Create(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func QueryStaffs(q StaffQuery, sec *session.Session) ([]StaffDetail, error) {
	if sec.VendorID == 0 {
		return nil, bizerror.ErrForbidden
	}

	staffs := []Staff{}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context).
		Where("vendor_id = ? AND is_deleted = ?", sec.VendorID, false).Order("id DESC")
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if q.RoleID != nil {
		db = db.Where("role_id = ?", *q.RoleID)
	}
	if err := db.Find(&staffs).Error; err != nil {
		return nil, err
	}

	return detailStaffs(staffs, sec)
}

func detailStaffs(staffs []Staff, sec *session.Session) ([]StaffDetail, error) {
	details := []StaffDetail{}
	if len(staffs) == 0 {
		return details, nil
	}

	var roleIds []types.ID
	for _, s := range staffs {
		roleIds = append(roleIds, s.RoleID)
	}
	var roles []role.Role
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Model(&role.Role{}).Where("id IN (?) AND vendor_id = ?", roleIds, sec.VendorID).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	roleMap := map[types.ID]role.Role{}
	for _, r := range roles {
		roleMap[r.ID] = r
	}

	for _, s := range staffs {
		detail := StaffDetail{Staff: s, RolePermissions: authority.Permissions{}}
		if r, found := roleMap[s.RoleID]; found {
			detail.RoleName = r.Name
			detail.RolePermissions = r.Permissions
		}
		details = append(details, detail)
	}
	return details, nil
}

// DetailStaff answers cross-vendor ids exactly as absent ids do.
func DetailStaff(id types.ID, sec *session.Session) (*StaffDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	s, err := findStaffInVendor(db, id, sec.VendorID)
	if err != nil {
		return nil, err
	}
	details, err := detailStaffs([]Staff{*s}, sec)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func findStaffInVendor(db *gorm.DB, id, vendorId types.ID) (*Staff, error) {
	if vendorId == 0 {
		return nil, bizerror.ErrForbidden
	}
	s := Staff{}
	if err := db.Where("id = ? AND vendor_id = ? AND is_deleted = ?", id, vendorId, false).First(&s).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindStaffByEmail loads a staff record for login, soft-deleted ones
// included; the login gate reports the deleted state distinctly.
func FindStaffByEmail(db *gorm.DB, email string) (*Staff, error) {
	s := Staff{}
	if err := db.Model(&Staff{}).Where("email = ?", account.NormalizeEmail(email)).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func UpdateStaff(id types.ID, u StaffUpdating, sec *session.Session) (*StaffDetail, error) {
	var priorImageKey string
	err := persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		s, err := findStaffInVendor(tx, id, sec.VendorID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			changes["name"] = strings.TrimSpace(*u.Name)
		}
		if u.Phone != nil {
			changes["phone"] = strings.TrimSpace(*u.Phone)
		}
		if u.Email != nil {
			email := account.NormalizeEmail(*u.Email)
			if email != s.Email {
				existing := Staff{}
				err := tx.Model(&Staff{}).Where("vendor_id = ? AND email = ? AND id != ?", sec.VendorID, email, id).
					First(&existing).Error
				if err == nil {
					return &bizerror.ErrConflict{Code: "staff.email_existed", Message: "staff email already exists"}
				}
				if !gorm.IsRecordNotFoundError(err) {
					return err
				}
			}
			changes["email"] = email
		}
		if u.Password != nil {
			secret, err := account.HashPassword(*u.Password)
			if err != nil {
				return err
			}
			changes["secret"] = secret
		}
		if u.RoleID != nil {
			if _, err := resolveAssignableRole(tx, *u.RoleID, sec.VendorID); err != nil {
				return err
			}
			changes["role_id"] = *u.RoleID
		}
		if u.Location != nil {
			changes["location"] = strings.TrimSpace(*u.Location)
		}
		if u.Gender != nil {
			changes["gender"] = *u.Gender
		}
		if u.ImageKey != nil && *u.ImageKey != s.ImageKey {
			priorImageKey = s.ImageKey
			changes["image_key"] = *u.ImageKey
		}
		if u.IsActive != nil {
			changes["is_active"] = *u.IsActive
		}

		if len(changes) > 0 {
			return tx.Model(&Staff{}).Where("id = ? AND vendor_id = ?", id, sec.VendorID).Updates(changes).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// replacing the image leaves the prior object behind; removal is
	// best-effort and never fails the update
	if priorImageKey != "" && s3.DeleteObjectFunc != nil {
		if err := s3.DeleteObjectFunc(priorImageKey, sec); err != nil {
			common.Log.Warnf("failed to delete replaced staff image %s: %v", priorImageKey, err)
		}
	}

	return DetailStaff(id, sec)
}

// DeleteStaff flips the soft-delete flags; the row is retained.
func DeleteStaff(id types.ID, sec *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := findStaffInVendor(tx, id, sec.VendorID); err != nil {
			return err
		}
		return tx.Model(&Staff{}).Where("id = ? AND vendor_id = ?", id, sec.VendorID).
			Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
	})
}
