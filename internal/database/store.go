package database

import (
	"errors"
	"fmt"

	"crm-online/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store — тонкая обёртка над gorm с операциями, которые нужны
// обработчикам: достать по ID, отфильтровать по полю, отсортировать,
// создать, сохранить, удалить. Имена полей приходят из кода
// (белые списки сортировки), не из пользовательского ввода.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(dest any, id uint) error {
	if err := s.db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) Filter(dest any, field string, value any) error {
	return s.db.Where(fmt.Sprintf("%s = ?", field), value).Find(dest).Error
}

// Ordered загружает все записи, отсортированные по колонке.
// desc=true — по убыванию.
func (s *Store) Ordered(dest any, field string, desc bool) error {
	order := field + " asc"
	if desc {
		order = field + " desc"
	}
	return s.db.Order(order).Find(dest).Error
}

func (s *Store) Create(value any) error {
	return s.db.Create(value).Error
}

func (s *Store) Save(value any) error {
	return s.db.Save(value).Error
}

func (s *Store) Delete(value any, id uint) error {
	return s.db.Delete(value, id).Error
}

// CompanyTitles — названия всех компаний, кроме excludeID.
// Валидатор уникальности сверяется с этим списком; при создании
// записи excludeID равен нулю.
func CompanyTitles(excludeID uint) ([]string, error) {
	var titles []string
	err := DB.Model(&models.Company{}).
		Where("id <> ?", excludeID).
		Pluck("title", &titles).Error
	return titles, err
}

// ProjectNames — названия всех проектов, кроме excludeID.
func ProjectNames(excludeID uint) ([]string, error) {
	var names []string
	err := DB.Model(&models.Project{}).
		Where("id <> ?", excludeID).
		Pluck("name", &names).Error
	return names, err
}
