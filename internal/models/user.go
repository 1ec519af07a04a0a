package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleCustomer UserRole = "customer"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`

	FirstName string `gorm:"size:100"` // Имя
	LastName  string `gorm:"size:100"` // Фамилия
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:17"` // формат +380XXXXXXXXX
}

// FullName — "Имя Фамилия", ровно один пробел. С этим значением
// сверяются профили заказчика и менеджера.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
