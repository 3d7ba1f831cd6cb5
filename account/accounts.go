package account

import (
	"errors"
	"os"
	"strings"

	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/idgen"
	"venuedesk/persistence"
	"venuedesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
	"golang.org/x/crypto/bcrypt"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc            = CreateUser
	QueryUsersFunc            = QueryUsers
	UpdateBasicAuthSecretFunc = UpdateBasicAuthSecret
)

func HashPassword(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, raw string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindUserByEmail loads a user regardless of state; the login gate
// decides what to do with deleted or inactive records.
func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	user := User{}
	if err := db.Model(&User{}).Where(&User{Email: NormalizeEmail(email)}).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(c *UserCreation, sec *session.Session) (*UserInfo, error) {
	if sec.Kind != authority.KindAdmin {
		return nil, bizerror.ErrForbidden
	}

	email := NormalizeEmail(c.Email)
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	existing := User{}
	err := db.Model(&User{}).Where(&User{Email: email}).First(&existing).Error
	if err == nil {
		return nil, &bizerror.ErrConflict{Code: "account.email_existed", Message: "email already registered"}
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	secret, err := HashPassword(c.Secret)
	if err != nil {
		return nil, err
	}
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Email: email, Secret: secret, Kind: c.Kind,
		IsActive: true, CreateTime: types.CurrentTimestamp()}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Kind: user.Kind}, nil
}

func QueryUsers(sec *session.Session) (*[]UserInfo, error) {
	if sec.Kind != authority.KindAdmin {
		return nil, bizerror.ErrForbidden
	}
	var users []UserInfo
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Model(&User{}).Where("is_deleted = ?", false).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, sec *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	user := User{}
	if err := db.Model(&User{}).Where(&User{ID: sec.Identity.ID}).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}
	if err := VerifyPassword(user.Secret, u.OriginalSecret); err != nil {
		return bizerror.ErrInvalidPassword
	}

	secret, err := HashPassword(u.NewSecret)
	if err != nil {
		return err
	}
	return db.Model(&User{}).Where(&User{ID: sec.Identity.ID}).Update("secret", secret).Error
}

// BootstrapPlatformAdmin seeds the initial admin account when absent.
func BootstrapPlatformAdmin() error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{Kind: authority.KindAdmin}).First(&admin).Error
		if err == nil {
			return nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		initialAdminPassword := os.Getenv("INITIAL_ADMIN_PASSWORD")
		if initialAdminPassword == "" {
			initialAdminPassword = "admin123"
		}
		secret, err := HashPassword(initialAdminPassword)
		if err != nil {
			return err
		}
		return tx.Create(&User{ID: idgen.NextID(userIdWorker), Name: "admin", Email: "admin@venuedesk.local",
			Secret: secret, Kind: authority.KindAdmin, IsActive: true, CreateTime: types.CurrentTimestamp()}).Error
	})
}
