package models

import "gorm.io/gorm"

type Channel string

const (
	ChannelPhoneCall Channel = "Телефонный звонок"
	ChannelEmail     Channel = "Переписка по E-mail"
	ChannelMessenger Channel = "Переписка в мессенджере"
)

// ReferenceKind — вид связи: с кем именно состоялся контакт.
type ReferenceKind string

const (
	ToCompany  ReferenceKind = "с компанией"
	ToCustomer ReferenceKind = "с заказчиком"
)

type Rating string

const (
	RatingOne   Rating = "☆"
	RatingTwo   Rating = "☆☆"
	RatingThree Rating = "☆☆☆"
	RatingFour  Rating = "☆☆☆☆"
	RatingFive  Rating = "☆☆☆☆☆"
)

// Interaction — запись о контакте по проекту: звонок, письмо или
// сообщение в мессенджере. Связана либо с компанией, либо с заказчиком,
// в зависимости от вида связи.
type Interaction struct {
	gorm.Model
	Channel       Channel       `gorm:"size:100;not null"` // Канал связи
	ReferenceKind ReferenceKind `gorm:"size:100"`          // Вид связи

	ProjectID *uint
	Project   *Project

	CompanyID *uint
	Company   *Company

	CustomerID *uint
	Customer   *Customer

	UserID uint // менеджер, зафиксировавший контакт
	User   User

	Rating      Rating `gorm:"size:100"` // Оценка
	Description string `gorm:"type:text"`
}
