package models

import (
	"strconv"
	"time"
)

// BaseModel defines the common fields for all models.
// There is deliberately no gorm.DeletedAt: plan replacement and friendship
// rejection delete rows for real, and a soft-deleted row would keep occupying
// the unique indexes the invariants depend on.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IDString returns the ID as a string.
func (b *BaseModel) IDString() string {
	return strconv.FormatUint(uint64(b.ID), 10)
}
