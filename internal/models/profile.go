package models

import "gorm.io/gorm"

type Gender string

const (
	GenderMale   Gender = "мужчина"
	GenderFemale Gender = "женщина"
)

// Customer — профиль заказчика, связанный с учётной записью.
// Поле Name обязано совпадать с "Имя Фамилия" учётной записи,
// это проверяет валидатор перед сохранением.
type Customer struct {
	gorm.Model
	UserID uint
	User   User

	Name   string `gorm:"size:100;not null"` // Имя Фамилия (подтвердите)
	Gender Gender `gorm:"size:100"`          // Пол
}

// ManagerCRM — профиль менеджера, те же правила, что и у заказчика.
type ManagerCRM struct {
	gorm.Model
	UserID uint
	User   User

	Name   string `gorm:"size:100;not null"`
	Gender Gender `gorm:"size:100"`
}
