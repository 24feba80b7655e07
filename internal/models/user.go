package models

import (
	"golang.org/x/crypto/bcrypt"
)

type AdminType int

const (
	AdminTypeRegular    AdminType = 0
	AdminTypeAdmin      AdminType = 1
	AdminTypeSuperAdmin AdminType = 2
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // JSON에서 숨김
	AdminType    AdminType `json:"adminType" db:"admin_type"`
}

// Identity 요청자 정보 (JWT에서 복원)
type Identity struct {
	UserID    int64
	Username  string
	AdminType AdminType
}

func (i Identity) IsSuperAdmin() bool {
	return i.AdminType == AdminTypeSuperAdmin
}

// Identity User → Identity
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, AdminType: u.AdminType}
}

// HashPassword 비밀번호 해싱
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword 비밀번호 검증
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
