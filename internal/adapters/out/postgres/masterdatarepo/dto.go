// Package masterdatarepo reads customer and product master data. The tables are
// owned by the catalogue system; this service only selects from them.
package masterdatarepo

import "orderdesk/internal/core/ports"

type CustomerDTO struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"not null;index:idx_customers_lower_name,expression:LOWER(name)"`
	District string `gorm:"not null;default:''"`
	Location string `gorm:"not null;default:''"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type ProductDTO struct {
	ID       int64  `gorm:"primaryKey"`
	Code     string `gorm:"type:varchar(64);not null;uniqueIndex"`
	FullName string `gorm:"not null;default:''"`
	Category string `gorm:"not null;default:''"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func (dto CustomerDTO) toPort() ports.Customer {
	return ports.Customer{ID: dto.ID, Name: dto.Name, District: dto.District, Location: dto.Location}
}

func (dto ProductDTO) toPort() ports.Product {
	return ports.Product{ID: dto.ID, Code: dto.Code, FullName: dto.FullName, Category: dto.Category}
}
