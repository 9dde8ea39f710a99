package model

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;size:100;not null;uniqueIndex" json:"name"`
}

func (Category) TableName() string { return "categoria" }
