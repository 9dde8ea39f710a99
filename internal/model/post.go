package model

import "time"

// Post is soft-deleted through IsActive; rows are never removed.
//
// Author and Categories declare the foreign keys and the post_categorias join
// table for migrations. Repositories never preload them: categories are filled
// by an explicit query and Author stays nil.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"column:titulo;size:150;not null" json:"title"`
	Body       string     `gorm:"column:contenido;type:text;not null" json:"body"`
	CreatedAt  time.Time  `gorm:"column:fecha_creacion;index" json:"created_at"`
	AuthorID   uint       `gorm:"column:usuario_id;not null;index" json:"author_id"`
	IsActive   bool       `gorm:"not null;default:true;index" json:"is_active"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"-"`
	Categories []Category `gorm:"many2many:post_categorias;joinForeignKey:PostID;joinReferences:CategoriaID" json:"categories"`
}

func (Post) TableName() string { return "post" }

// PostCategory is a row of the post_categorias join table.
type PostCategory struct {
	PostID      uint `gorm:"primaryKey;autoIncrement:false;column:post_id"`
	CategoriaID uint `gorm:"primaryKey;autoIncrement:false;column:categoria_id"`
}

func (PostCategory) TableName() string { return "post_categorias" }
