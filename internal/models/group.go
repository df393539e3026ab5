package models

import "time"

// Group is a named topical category posts may optionally belong to.
type Group struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Slug            string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedByUserID *uint     `gorm:"index" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}

func (g Group) String() string {
	return g.Title
}
