// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Category    string    `json:"category" gorm:"size:100;not null;index"`
	SubCategory string    `json:"sub_category" gorm:"size:100"`
	Brand       string    `json:"brand" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int       `json:"stock" gorm:"default:0"`
	ImageURL    string    `json:"image_url" gorm:"size:512;default:''"`
	DatasetURL  string    `json:"dataset_url" gorm:"size:512;default:''"`
	Promotions  JSONB     `json:"promotions" gorm:"type:jsonb"`
	Competitors JSONB     `json:"competitors" gorm:"type:jsonb"`
	Ratings     JSONB     `json:"ratings" gorm:"type:jsonb"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
