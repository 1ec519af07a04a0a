package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

// Статусы выводятся на страницах как есть, поэтому значения — строки
// отображения, а не машинные коды.
const (
	StatusNotStarted ProjectStatus = "Еще не начат"
	StatusInProgress ProjectStatus = "В процессе разработки"
	StatusCompleted  ProjectStatus = "Выполнен"
)

type Project struct {
	gorm.Model
	CompanyID uint
	Company   Company

	CustomerID *uint
	Customer   *Customer

	Name        string `gorm:"size:100;uniqueIndex;not null"` // Название проекта
	Description string `gorm:"type:text"`                     // Краткое описание

	StartDate time.Time // Дата начала проекта
	EndDate   time.Time // Дата окончания проекта
	Price     int       // Стоимость проекта, в долларах США

	// Статус всегда пересчитывается из дат при сохранении,
	// напрямую из формы он не принимается.
	Status ProjectStatus `gorm:"size:100;not null"`
}
