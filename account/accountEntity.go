package account

import (
	"github.com/fundwit/go-commons/types"
)

// User is a directly registered principal: a vendor owner, customer,
// platform admin or affiliate. Vendor staff live in their own store and
// only authenticate through an assigned role.
type User struct {
	ID types.ID `json:"id"`

	Name   string `json:"name"`
	Email  string `json:"email" gorm:"unique_index:uni_user_email"`
	Secret string `json:"-"`
	Kind   string `json:"kind"`

	IsActive  bool `json:"isActive" gorm:"default:true"`
	IsDeleted bool `json:"isDeleted" gorm:"default:false"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type UserInfo struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Kind  string   `json:"kind"`
}

type UserCreation struct {
	Name   string `json:"name" binding:"required,lte=64"`
	Email  string `json:"email" binding:"required,email,lte=128"`
	Secret string `json:"secret" binding:"required,gte=6,lte=64"`
	Kind   string `json:"kind" binding:"required,oneof=vendor customer admin affiliate"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret" binding:"required"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=64"`
}
