package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Client is a customer account, the root entity of the CRM
type Client struct {
	ID            types.ClientID `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"size:200;not null"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone" gorm:"size:20"`
	Mobile        string         `json:"mobile" gorm:"size:20"`
	HasWhatsApp   bool           `json:"has_whatsapp"`
	BusinessArea  string         `json:"business_area" gorm:"size:100"`
	TaxID         string         `json:"tax_id" gorm:"size:20;index"`
	FinancialInfo string         `json:"financial_info"`
	Email         string         `json:"email" gorm:"size:120;index"`
	JobTitle      string         `json:"job_title" gorm:"size:100"`
	Website       string         `json:"website" gorm:"size:200"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewClient creates a new Client with registration time set
func NewClient(name string) *Client {
	return &Client{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields and address formats
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrInvalidRequest, "client name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return goerr.Wrap(ErrInvalidRequest, "invalid client email",
				goerr.V("email", c.Email))
		}
	}
	return nil
}

// WhatsAppNumber returns the number used for WhatsApp delivery.
// The mobile number is preferred; the landline only counts when the client
// declared it as a WhatsApp number.
func (c *Client) WhatsAppNumber() string {
	if mobile := strings.TrimSpace(c.Mobile); mobile != "" {
		return mobile
	}
	if c.HasWhatsApp {
		return strings.TrimSpace(c.Phone)
	}
	return ""
}

// Recipient builds the read-only dispatch view of the client for a channel
func (c *Client) Recipient(channel types.Channel) *Recipient {
	r := &Recipient{
		ID:          c.ID,
		DisplayName: c.Name,
	}

	switch channel {
	case types.ChannelEmail:
		r.Address = Address{Kind: types.AddressKindEmail, Value: strings.TrimSpace(c.Email)}
	case types.ChannelWhatsApp:
		r.Address = Address{Kind: types.AddressKindPhone, Value: c.WhatsAppNumber()}
	}
	r.HasAddress = r.Address.Value != ""

	return r
}
