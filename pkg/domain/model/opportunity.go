package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// OpportunityStatusProspecting is the status of a freshly created opportunity
const OpportunityStatusProspecting = "Prospecting"

// Opportunity is a potential sale tracked against a client
type Opportunity struct {
	ID              types.OpportunityID `json:"id" gorm:"primaryKey"`
	ClientID        types.ClientID      `json:"client_id" gorm:"index;not null"`
	Name            string              `json:"name" gorm:"size:200;not null"`
	Value           float64             `json:"value"`
	Status          string              `json:"status" gorm:"size:50;not null"`
	Probability     int                 `json:"probability"`
	CreatedAt       time.Time           `json:"created_at"`
	ExpectedCloseAt *time.Time          `json:"expected_close_at"`
}

// NewOpportunity creates a new Opportunity in prospecting state
func NewOpportunity(clientID types.ClientID, name string) *Opportunity {
	return &Opportunity{
		ClientID:  clientID,
		Name:      name,
		Status:    OpportunityStatusProspecting,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields and the probability range
func (o *Opportunity) Validate() error {
	if o.ClientID <= 0 {
		return goerr.Wrap(ErrInvalidRequest, "opportunity client_id is required")
	}
	if strings.TrimSpace(o.Name) == "" {
		return goerr.Wrap(ErrInvalidRequest, "opportunity name is required")
	}
	if strings.TrimSpace(o.Status) == "" {
		return goerr.Wrap(ErrInvalidRequest, "opportunity status is required")
	}
	if o.Probability < 0 || o.Probability > 100 {
		return goerr.Wrap(ErrInvalidRequest, "opportunity probability must be between 0 and 100",
			goerr.V("probability", o.Probability))
	}
	return nil
}
