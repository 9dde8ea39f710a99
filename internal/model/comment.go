package model

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"column:texto;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:fecha_creacion" json:"created_at"`
	AuthorID  uint      `gorm:"column:usuario_id;not null;index" json:"author_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"-"`
}

func (Comment) TableName() string { return "comentario" }
