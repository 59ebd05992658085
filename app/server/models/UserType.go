package models

import "gorm.io/gorm"

type UserType struct {
	gorm.Model

	Name         string  `gorm:"column:name"`
	Description  *string `gorm:"column:description"`
	Icon         *string `gorm:"column:icon"`
	DisplayOrder int     `gorm:"column:display_order;index"`
}
