package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// saltRounds is the bcrypt cost used for every stored password.
const saltRounds = 10

var validate = validator.New()

// User represents a registered user.
// Password holds the plaintext only until the record is saved; afterwards it is a bcrypt hash.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name      string    `json:"name" gorm:"type:varchar(50)" bson:"name" validate:"max=50"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"email" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" bson:"password" validate:"required,min=5"`
	Lastname  string    `json:"lastname" gorm:"type:varchar(50)" bson:"lastname" validate:"max=50"`
	Role      int       `json:"role" gorm:"default:0" bson:"role"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Token     string    `json:"token,omitempty" gorm:"index" bson:"token,omitempty"`
	TokenExp  int64     `json:"tokenExp,omitempty" bson:"tokenExp,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	// loadedPassword is the password value as last read from or written to the store.
	loadedPassword string
}

// PasswordModified reports whether Password changed since the record was loaded or saved.
func (u *User) PasswordModified() bool {
	return u.Password != u.loadedPassword
}

// MarkLoaded records the current password as the persisted one.
// Stores call it after reading a record.
func (u *User) MarkLoaded() {
	u.loadedPassword = u.Password
}

// Validate checks the field constraints. The password rules apply only while
// the password is still plaintext.
func (u *User) Validate() error {
	if u.PasswordModified() {
		return validate.Struct(u)
	}
	return validate.StructExcept(u, "Password")
}

// PrepareForSave normalizes and validates the record before it is written. A
// modified password is replaced by its bcrypt hash; an unmodified one is left
// untouched. Validation and hashing errors are returned as-is and the write
// must not proceed.
func (u *User) PrepareForSave() error {
	u.Email = strings.TrimSpace(u.Email)

	if err := u.Validate(); err != nil {
		return err
	}
	if !u.PasswordModified() {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), saltRounds)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.loadedPassword = u.Password
	return nil
}

// ComparePassword reports whether plainPassword matches the stored hash.
func (u *User) ComparePassword(plainPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainPassword))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsAdmin reports whether the user has a non-default role.
func (u *User) IsAdmin() bool {
	return u.Role != 0
}

// BeforeSave is the GORM hook run before Create and Save.
func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.PrepareForSave()
}

// AfterFind is the GORM hook run after a record is loaded.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.MarkLoaded()
	return nil
}
