package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Contact is a person working at a client
type Contact struct {
	ID       types.ContactID `json:"id" gorm:"primaryKey"`
	ClientID types.ClientID  `json:"client_id" gorm:"index;not null"`
	Name     string          `json:"name" gorm:"size:200;not null"`
	JobTitle string          `json:"job_title" gorm:"size:100"`
	Phone    string          `json:"phone" gorm:"size:20"`
	Email    string          `json:"email" gorm:"size:120"`
}

// Validate checks required fields
func (c *Contact) Validate() error {
	if c.ClientID <= 0 {
		return goerr.Wrap(ErrInvalidRequest, "contact client_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrInvalidRequest, "contact name is required")
	}
	return nil
}
