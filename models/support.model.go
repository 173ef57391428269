package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ticket status values
const (
	TicketOpen    = "OPEN"
	TicketPending = "PENDING"
	TicketClosed  = "CLOSED"
)

// TicketMessage is one entry of a ticket conversation
type TicketMessage struct {
	Sender string `json:"sender"` // "user" or "admin"
	Text   string `json:"text"`
	Time   string `json:"time"`
}

type SupportTicket struct {
	gorm.Model
	UserID   uint                               `json:"userId" gorm:"index;not null"`
	Title    string                             `json:"title"`
	Messages datatypes.JSONSlice[TicketMessage] `json:"messages"`
	Status   string                             `json:"status" gorm:"type:varchar(20);default:'OPEN'"`
	Priority string                             `json:"priority" gorm:"type:varchar(20);default:'MEDIUM'"`
	Category string                             `json:"category" gorm:"type:varchar(20);default:'GENERAL'"`
}
