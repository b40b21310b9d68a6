package models

import (
	"time"
)

// Organization represents a registered organization. Shape mirrors User;
// organizations are publicly listable while users are not.
type Organization struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	Number       int       `json:"number" db:"number"`
	Complement   *string   `json:"complement,omitempty" db:"complement"`
	City         string    `json:"city" db:"city"`
	UF           string    `json:"uf" db:"uf"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OrgCreateRequest represents the organization signup payload.
// Phone is optional here, unlike user signup.
type OrgCreateRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required"`
	Phone      string  `json:"phone" binding:"omitempty,min=10,max=11"`
	Address    string  `json:"address" binding:"required"`
	Number     *int    `json:"number" binding:"required"`
	Complement *string `json:"complement,omitempty"`
	City       string  `json:"city" binding:"required"`
	UF         string  `json:"uf" binding:"required,len=2"`
}

// OrgUpdateRequest represents a partial organization update
type OrgUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Password   *string `json:"password,omitempty"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,min=10,max=11"`
	Address    *string `json:"address,omitempty"`
	Number     *int    `json:"number,omitempty"`
	Complement *string `json:"complement,omitempty"`
	City       *string `json:"city,omitempty"`
	UF         *string `json:"uf,omitempty" binding:"omitempty,len=2"`
}

// Empty reports whether the update carries no fields
func (r OrgUpdateRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil &&
		r.Phone == nil && r.Address == nil && r.Number == nil &&
		r.Complement == nil && r.City == nil && r.UF == nil
}
