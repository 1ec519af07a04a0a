// Package rules содержит правила согласованности данных CRM:
// вычисление статуса проекта по датам, нормализацию ссылок
// взаимодействия и проверки перед сохранением.
//
// Все функции чистые: пакет не ходит ни в БД, ни в сессию,
// обработчики вызывают его перед записью в хранилище.
package rules

import (
	"time"

	"crm-online/internal/models"
)

// Clock отдаёт текущее время. В обработчиках это time.Now,
// в тестах — фиксированный момент.
type Clock func() time.Time

// DeriveStatus вычисляет статус проекта по датам начала и окончания.
// Границы включительные: в момент начала и в момент окончания проект
// ещё "В процессе разработки".
//
// Вызывается на каждом пути сохранения проекта — статус никогда
// не принимается от формы и не хранится между сохранениями как истина:
// проект, пересохранённый спустя годы, получает статус от текущих часов.
func DeriveStatus(start, end, now time.Time) models.ProjectStatus {
	switch {
	case now.Before(start):
		return models.StatusNotStarted
	case now.After(end):
		return models.StatusCompleted
	default:
		return models.StatusInProgress
	}
}
