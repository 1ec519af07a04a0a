package models

import "gorm.io/gorm"

type ContactKind string

const (
	ContactPhone  ContactKind = "phone"
	ContactEmail  ContactKind = "email"
	ContactPerson ContactKind = "person"
)

type Company struct {
	gorm.Model
	Title       string `gorm:"size:100;uniqueIndex;not null"` // Название компании
	LeaderName  string `gorm:"size:100"`                      // ФИО директора
	Description string `gorm:"type:text"`                     // Краткое описание
	Address     string `gorm:"size:100"`                      // Адрес компании

	Contacts []Contact
	Projects []Project
}

// Contact — телефон, e-mail или контактное лицо компании.
type Contact struct {
	gorm.Model
	CompanyID uint
	Company   Company

	Kind  ContactKind `gorm:"type:varchar(20);not null"`
	Value string      `gorm:"size:255;not null"` // номер, адрес или ФИО
}
