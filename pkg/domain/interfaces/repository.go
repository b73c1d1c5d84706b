package interfaces

//go:generate moq -out mocks/repository_mock.go -pkg mocks . ClientRepository

import (
	"context"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// ClientRepository is the read-only view of clients the dispatcher needs
type ClientRepository interface {
	// ResolveRecipients returns the recipients for the given IDs on a channel.
	// IDs that do not exist are omitted without error. The result holds each
	// client at most once.
	ResolveRecipients(ctx context.Context, ids []types.ClientID, channel types.Channel) ([]*model.Recipient, error)
}

// Repository defines the interface for data persistence
type Repository interface {
	ClientRepository

	// Client operations
	CreateClient(ctx context.Context, client *model.Client) error
	GetClient(ctx context.Context, id types.ClientID) (*model.Client, error)
	ListClients(ctx context.Context) ([]*model.Client, error)
	UpdateClient(ctx context.Context, client *model.Client) error
	DeleteClient(ctx context.Context, id types.ClientID) error

	// Contact operations
	CreateContact(ctx context.Context, contact *model.Contact) error
	GetContact(ctx context.Context, id types.ContactID) (*model.Contact, error)
	ListContacts(ctx context.Context) ([]*model.Contact, error)
	ListContactsByClient(ctx context.Context, clientID types.ClientID) ([]*model.Contact, error)
	UpdateContact(ctx context.Context, contact *model.Contact) error
	DeleteContact(ctx context.Context, id types.ContactID) error

	// Opportunity operations
	CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) error
	GetOpportunity(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error)
	ListOpportunities(ctx context.Context) ([]*model.Opportunity, error)
	ListOpportunitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Opportunity, error)
	UpdateOpportunity(ctx context.Context, opportunity *model.Opportunity) error
	DeleteOpportunity(ctx context.Context, id types.OpportunityID) error

	// Activity operations
	CreateActivity(ctx context.Context, activity *model.Activity) error
	GetActivity(ctx context.Context, id types.ActivityID) (*model.Activity, error)
	ListActivities(ctx context.Context) ([]*model.Activity, error)
	ListActivitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Activity, error)
	ListActivitiesByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Activity, error)
	UpdateActivity(ctx context.Context, activity *model.Activity) error
	DeleteActivity(ctx context.Context, id types.ActivityID) error

	// Product operations
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id types.ProductID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id types.ProductID) error

	// GetSystemConfig returns the stored configuration, or the defaults when nothing was saved
	GetSystemConfig(ctx context.Context) (*model.SystemConfig, error)
	PutSystemConfig(ctx context.Context, cfg *model.SystemConfig) error

	// Close closes the repository connection
	Close() error
}
