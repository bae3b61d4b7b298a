package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Phone     string            `gorm:"size:20" json:"phone,omitempty"`
	Email     string            `json:"email,omitempty"`
	GSTNumber string            `gorm:"column:gst_number;size:15" json:"gstNumber,omitempty"`
	State     string            `json:"state,omitempty"`
	Address   string            `json:"address,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"not null" json:"updatedAt"`
}

// ShipTo is the delivery address snapshot frozen onto a document.
type ShipTo struct {
	Name      string `json:"name,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTNumber string `json:"gstNumber,omitempty"`
}

func (s ShipTo) IsZero() bool {
	return strings.TrimSpace(s.Name) == "" && strings.TrimSpace(s.Address) == ""
}

// DefaultShipTo ships to the billing party when no address was given.
func (c Customer) DefaultShipTo() ShipTo {
	return ShipTo{
		Name:      c.Name,
		Address:   c.Address,
		State:     c.State,
		Phone:     c.Phone,
		GSTNumber: c.GSTNumber,
	}
}

// Party is the billing party snapshot frozen onto a document, so a later
// edit or deletion of the customer does not change issued documents.
type Party struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Address   string       `json:"address,omitempty"`
	State     string       `json:"state,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	GSTNumber string       `json:"gstNumber,omitempty"`
}

func (c Customer) Party() Party {
	return Party{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		State:     c.State,
		Phone:     c.Phone,
		Email:     c.Email,
		GSTNumber: c.GSTNumber,
	}
}
