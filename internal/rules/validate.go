package rules

import (
	"strings"
	"time"
)

// Rule — код не прошедшей проверки.
type Rule string

const (
	DuplicateTitle   Rule = "duplicate_title"
	InvalidDateRange Rule = "invalid_date_range"
	NameMismatch     Rule = "name_mismatch"
)

// Violation — одна не прошедшая проверка: какое поле, какое правило
// и что показать пользователю.
type Violation struct {
	Rule    Rule
	Field   string
	Message string
}

func (v *Violation) Error() string {
	return v.Field + ": " + v.Message
}

// Violations — все нарушения одного запроса на запись. Проверки
// не обрываются на первой ошибке: пользователь видит весь список сразу.
type Violations []*Violation

func (vs Violations) Error() string {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// Collect отбрасывает прошедшие проверки (nil) и собирает остальные.
func Collect(checks ...*Violation) Violations {
	var vs Violations
	for _, v := range checks {
		if v != nil {
			vs = append(vs, v)
		}
	}
	return vs
}

// UniqueTitle сверяет название с названиями всех других записей того же
// типа без учёта регистра. При изменении запись сверяется со всеми,
// кроме самой себя — existing это уже учитывает.
//
// Это быстрая проверка для пользователя: от гонки двух одновременных
// записей защищает уникальный индекс в БД, а не она.
func UniqueTitle(candidate string, existing []string) *Violation {
	for _, title := range existing {
		if strings.EqualFold(candidate, title) {
			return &Violation{
				Rule:    DuplicateTitle,
				Field:   "title",
				Message: "Введите уникальное название",
			}
		}
	}
	return nil
}

// DateOrder требует, чтобы дата окончания была строго позже даты начала.
// Совпадающие даты тоже отклоняются.
func DateOrder(start, end time.Time) *Violation {
	if !end.After(start) {
		return &Violation{
			Rule:    InvalidDateRange,
			Field:   "end_date",
			Message: "Дата окончания проекта не может быть раньше даты начала проекта",
		}
	}
	return nil
}

// NameMatchesAccount требует точного совпадения имени профиля
// с "Имя Фамилия" учётной записи: с учётом регистра, один пробел,
// без обрезки пробелов. Правило одно и то же для заказчика и менеджера.
func NameMatchesAccount(declared, firstName, lastName string) *Violation {
	if declared != firstName+" "+lastName {
		return &Violation{
			Rule:    NameMismatch,
			Field:   "name",
			Message: "Имя Фамилия не совпадают с изменёнными данными, пожалуйста внесите соответствующие изменения",
		}
	}
	return nil
}
