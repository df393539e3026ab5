package models

import (
	"time"
	"unicode/utf8"
)

// PostPreviewLength is the number of characters of text used as a post's short label.
const PostPreviewLength = 15

// Post is a text entry written by one author, optionally filed under a group.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	Cover     string    `gorm:"size:255" json:"cover,omitempty"`
	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// String returns the first PostPreviewLength characters of the text.
func (p Post) String() string {
	if utf8.RuneCountInString(p.Text) <= PostPreviewLength {
		return p.Text
	}
	return string([]rune(p.Text)[:PostPreviewLength])
}

// HasGroup reports whether the post is filed under a group.
func (p Post) HasGroup() bool {
	return p.GroupID != nil && p.Group != nil
}

// DisplayImage is the key shown on cards and the detail page: the cover
// rendition when one was stored, otherwise the original upload.
func (p Post) DisplayImage() string {
	if p.Cover != "" {
		return p.Cover
	}
	return p.Image
}
