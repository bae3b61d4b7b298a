package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Supplier struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	GSTIN     string       `gorm:"column:gstin;size:15;not null" json:"gstin"`
	Phone     string       `gorm:"size:10" json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	Address   string       `json:"address,omitempty"`
	State     string       `json:"state,omitempty"`
	CreatedAt time.Time    `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Supplier) TableName() string { return "suppliers" }
