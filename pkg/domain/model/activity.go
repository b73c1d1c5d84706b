package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// ActivityStatusPending is the status of a newly scheduled activity
const ActivityStatusPending = "Pending"

// Activity is a call, meeting or task linked to a client and/or opportunity
type Activity struct {
	ID            types.ActivityID     `json:"id" gorm:"primaryKey"`
	ClientID      *types.ClientID      `json:"client_id" gorm:"index"`
	OpportunityID *types.OpportunityID `json:"opportunity_id" gorm:"index"`
	Kind          string               `json:"kind" gorm:"size:50;not null"`
	Description   string               `json:"description"`
	ScheduledAt   time.Time            `json:"scheduled_at" gorm:"not null"`
	Status        string               `json:"status" gorm:"size:50;not null"`
}

// NewActivity creates a pending activity scheduled now
func NewActivity(kind string) *Activity {
	return &Activity{
		Kind:        kind,
		ScheduledAt: time.Now().UTC(),
		Status:      ActivityStatusPending,
	}
}

// Validate checks required fields
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Kind) == "" {
		return goerr.Wrap(ErrInvalidRequest, "activity kind is required")
	}
	if strings.TrimSpace(a.Status) == "" {
		return goerr.Wrap(ErrInvalidRequest, "activity status is required")
	}
	if a.ScheduledAt.IsZero() {
		return goerr.Wrap(ErrInvalidRequest, "activity scheduled_at is required")
	}
	return nil
}
