// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string      `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Name         string      `json:"name" gorm:"size:255;not null"`
	Rank         string      `json:"rank" gorm:"size:100;not null"`
	StaffID      string      `json:"staff_id" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string      `json:"-" gorm:"size:255;not null"`
	AccountType  AccountType `json:"account_type" gorm:"type:varchar(30);not null"`
	Department   string      `json:"department" gorm:"size:100;not null"`
	Section      string      `json:"section" gorm:"size:50"`

	// Relationships
	Requests []FileRequest `json:"requests,omitempty" gorm:"foreignKey:RequesterID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
