package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Product is an item of the catalogue offered to clients
type Product struct {
	ID          types.ProductID `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
}

// Validate checks required fields
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return goerr.Wrap(ErrInvalidRequest, "product name is required")
	}
	if p.Price < 0 {
		return goerr.Wrap(ErrInvalidRequest, "product price cannot be negative",
			goerr.V("price", p.Price))
	}
	return nil
}
