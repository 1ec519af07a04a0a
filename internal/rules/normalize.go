package rules

import "crm-online/internal/models"

// NormalizeInteraction приводит ссылки взаимодействия в соответствие
// с видом связи: контакт "с заказчиком" не может ссылаться на компанию,
// контакт "с компанией" — на заказчика.
//
// Пустой вид связи обнуляет обе ссылки: иначе в хранилище могла бы
// попасть запись, ссылающаяся и на компанию, и на заказчика сразу.
//
// Выполняется на каждом создании и изменении взаимодействия,
// а не только при вводе формы. Идемпотентна.
func NormalizeInteraction(in models.Interaction) models.Interaction {
	switch in.ReferenceKind {
	case models.ToCustomer:
		in.CompanyID = nil
		in.Company = nil
	case models.ToCompany:
		in.CustomerID = nil
		in.Customer = nil
	default:
		in.CompanyID = nil
		in.Company = nil
		in.CustomerID = nil
		in.Customer = nil
	}
	return in
}
