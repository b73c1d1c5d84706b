package http

import (
	"context"
	"errors"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// referenced turns a missing parent entity into a validation error
func referenced(err error, what string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return goerr.Wrap(model.ErrInvalidRequest, "referenced "+what+" does not exist",
			goerr.V("id", id))
	}
	return goerr.Wrap(err, "failed to check referenced "+what)
}

func clientExists(ctx context.Context, repo interfaces.Repository, id types.ClientID) error {
	_, err := repo.GetClient(ctx, id)
	return referenced(err, "client", int64(id))
}

func mountEntities(r chi.Router, repo interfaces.Repository) {
	clients := &resource[model.Client, types.ClientID]{
		name:     "client",
		fresh:    func() *model.Client { return model.NewClient("") },
		idOf:     func(v *model.Client) types.ClientID { return v.ID },
		setID:    func(v *model.Client, id types.ClientID) { v.ID = id },
		validate: (*model.Client).Validate,
		create:   repo.CreateClient,
		get:      repo.GetClient,
		list:     repo.ListClients,
		update:   repo.UpdateClient,
		remove:   repo.DeleteClient,
	}
	r.Route("/clients", clients.mount)

	contacts := &resource[model.Contact, types.ContactID]{
		name:     "contact",
		fresh:    func() *model.Contact { return &model.Contact{} },
		idOf:     func(v *model.Contact) types.ContactID { return v.ID },
		setID:    func(v *model.Contact, id types.ContactID) { v.ID = id },
		validate: (*model.Contact).Validate,
		references: func(ctx context.Context, v *model.Contact) error {
			return clientExists(ctx, repo, v.ClientID)
		},
		create: repo.CreateContact,
		get:    repo.GetContact,
		list:   repo.ListContacts,
		update: repo.UpdateContact,
		remove: repo.DeleteContact,
	}
	r.Route("/contacts", func(r chi.Router) {
		contacts.mount(r)
		r.Get("/client/{clientID}", listBy[model.Contact, types.ClientID]("contacts", "clientID", repo.ListContactsByClient))
	})

	opportunities := &resource[model.Opportunity, types.OpportunityID]{
		name:     "opportunity",
		fresh:    func() *model.Opportunity { return model.NewOpportunity(0, "") },
		idOf:     func(v *model.Opportunity) types.OpportunityID { return v.ID },
		setID:    func(v *model.Opportunity, id types.OpportunityID) { v.ID = id },
		validate: (*model.Opportunity).Validate,
		references: func(ctx context.Context, v *model.Opportunity) error {
			return clientExists(ctx, repo, v.ClientID)
		},
		create: repo.CreateOpportunity,
		get:    repo.GetOpportunity,
		list:   repo.ListOpportunities,
		update: repo.UpdateOpportunity,
		remove: repo.DeleteOpportunity,
	}
	r.Route("/opportunities", func(r chi.Router) {
		opportunities.mount(r)
		r.Get("/client/{clientID}", listBy[model.Opportunity, types.ClientID]("opportunities", "clientID", repo.ListOpportunitiesByClient))
	})

	activities := &resource[model.Activity, types.ActivityID]{
		name:     "activity",
		fresh:    func() *model.Activity { return model.NewActivity("") },
		idOf:     func(v *model.Activity) types.ActivityID { return v.ID },
		setID:    func(v *model.Activity, id types.ActivityID) { v.ID = id },
		validate: (*model.Activity).Validate,
		references: func(ctx context.Context, v *model.Activity) error {
			if v.ClientID != nil {
				if err := clientExists(ctx, repo, *v.ClientID); err != nil {
					return err
				}
			}
			if v.OpportunityID != nil {
				_, err := repo.GetOpportunity(ctx, *v.OpportunityID)
				return referenced(err, "opportunity", int64(*v.OpportunityID))
			}
			return nil
		},
		create: repo.CreateActivity,
		get:    repo.GetActivity,
		list:   repo.ListActivities,
		update: repo.UpdateActivity,
		remove: repo.DeleteActivity,
	}
	r.Route("/activities", func(r chi.Router) {
		activities.mount(r)
		r.Get("/client/{clientID}", listBy[model.Activity, types.ClientID]("activities", "clientID", repo.ListActivitiesByClient))
		r.Get("/opportunity/{opportunityID}", listBy[model.Activity, types.OpportunityID]("activities", "opportunityID", repo.ListActivitiesByOpportunity))
	})

	products := &resource[model.Product, types.ProductID]{
		name:     "product",
		fresh:    func() *model.Product { return &model.Product{} },
		idOf:     func(v *model.Product) types.ProductID { return v.ID },
		setID:    func(v *model.Product, id types.ProductID) { v.ID = id },
		validate: (*model.Product).Validate,
		create:   repo.CreateProduct,
		get:      repo.GetProduct,
		list:     repo.ListProducts,
		update:   repo.UpdateProduct,
		remove:   repo.DeleteProduct,
	}
	r.Route("/products", products.mount)
}
