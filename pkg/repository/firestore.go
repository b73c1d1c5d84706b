package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	clientsCollection       = "clients"
	contactsCollection      = "contacts"
	opportunitiesCollection = "opportunities"
	activitiesCollection    = "activities"
	productsCollection      = "products"
	systemConfigCollection  = "system_config"
	countersCollection      = "counters"

	// Field names
	fieldCurrentNumber = "current_number"
	fieldClientID      = "ClientID"
	fieldOpportunityID = "OpportunityID"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project IDs or missing permissions
	_, err = client.Collection(clientsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

func docID[K ~int64](id K) string {
	return strconv.FormatInt(int64(id), 10)
}

// nextID allocates the next sequential ID of a collection using atomic increment
func (f *Firestore) nextID(ctx context.Context, collection string) (int64, error) {
	counterDoc := f.client.Collection(countersCollection).Doc(collection)

	var next int64
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterDoc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterDoc, map[string]any{
					fieldCurrentNumber: next,
				})
			}
			return goerr.Wrap(err, "failed to get counter document")
		}

		current, err := doc.DataAt(fieldCurrentNumber)
		if err != nil {
			return goerr.Wrap(err, "failed to get current_number field")
		}

		switch v := current.(type) {
		case int64:
			next = v + 1
		case int:
			next = int64(v) + 1
		default:
			return goerr.New("unexpected type for current_number")
		}

		return tx.Update(counterDoc, []firestore.Update{
			{Path: fieldCurrentNumber, Value: next},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate ID", goerr.V("collection", collection))
	}

	return next, nil
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, entity string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", ref.ID))
		}
		return nil, goerr.Wrap(err, "failed to get "+entity+" from firestore", goerr.V("id", ref.ID))
	}

	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, goerr.Wrap(err, "failed to decode "+entity, goerr.V("id", ref.ID))
	}
	return &v, nil
}

// listDocs reads every document of a query, sorted by ID in memory to avoid composite indexes
func listDocs[T any, K ~int64](ctx context.Context, query firestore.Query, entity string, idOf func(*T) K) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	result := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate "+entity)
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to decode "+entity, goerr.V("id", doc.Ref.ID))
		}
		result = append(result, &v)
	}

	slices.SortFunc(result, func(a, b *T) int {
		return cmp.Compare(idOf(a), idOf(b))
	})
	return result, nil
}

// replaceDoc overwrites an existing document, failing with ErrNotFound when absent
func (f *Firestore) replaceDoc(ctx context.Context, ref *firestore.DocumentRef, row any, entity string) error {
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", ref.ID))
			}
			return goerr.Wrap(err, "failed to get "+entity, goerr.V("id", ref.ID))
		}
		return tx.Set(ref, row)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update "+entity, goerr.V("id", ref.ID))
	}
	return nil
}

func deleteDoc(ctx context.Context, ref *firestore.DocumentRef, entity string) error {
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", ref.ID))
		}
		return goerr.Wrap(err, "failed to delete "+entity, goerr.V("id", ref.ID))
	}
	return nil
}

// ResolveRecipients fetches the requested clients in one batch read
func (f *Firestore) ResolveRecipients(ctx context.Context, ids []types.ClientID, channel types.Channel) ([]*model.Recipient, error) {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	if len(unique) == 0 {
		return []*model.Recipient{}, nil
	}

	refs := make([]*firestore.DocumentRef, len(unique))
	for i, id := range unique {
		refs[i] = f.client.Collection(clientsCollection).Doc(docID(id))
	}

	docs, err := f.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve recipients", goerr.V("count", len(unique)))
	}

	recipients := make([]*model.Recipient, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var client model.Client
		if err := doc.DataTo(&client); err != nil {
			return nil, goerr.Wrap(err, "failed to decode client", goerr.V("id", doc.Ref.ID))
		}
		recipients = append(recipients, client.Recipient(channel))
	}
	return recipients, nil
}

// CreateClient stores a new client with the next sequential ID
func (f *Firestore) CreateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}
	id, err := f.nextID(ctx, clientsCollection)
	if err != nil {
		return err
	}
	client.ID = types.ClientID(id)

	if _, err := f.client.Collection(clientsCollection).Doc(docID(client.ID)).Set(ctx, client); err != nil {
		return goerr.Wrap(err, "failed to save client to firestore", goerr.V("id", client.ID))
	}
	return nil
}

// GetClient retrieves a client by ID
func (f *Firestore) GetClient(ctx context.Context, id types.ClientID) (*model.Client, error) {
	return getDoc[model.Client](ctx, f.client.Collection(clientsCollection).Doc(docID(id)), "client")
}

// ListClients lists all clients
func (f *Firestore) ListClients(ctx context.Context) ([]*model.Client, error) {
	return listDocs(ctx, f.client.Collection(clientsCollection).Query, "clients",
		func(c *model.Client) types.ClientID { return c.ID })
}

// UpdateClient replaces an existing client
func (f *Firestore) UpdateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}
	return f.replaceDoc(ctx, f.client.Collection(clientsCollection).Doc(docID(client.ID)), client, "client")
}

// DeleteClient deletes a client
func (f *Firestore) DeleteClient(ctx context.Context, id types.ClientID) error {
	return deleteDoc(ctx, f.client.Collection(clientsCollection).Doc(docID(id)), "client")
}

// CreateContact stores a new contact with the next sequential ID
func (f *Firestore) CreateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}
	id, err := f.nextID(ctx, contactsCollection)
	if err != nil {
		return err
	}
	contact.ID = types.ContactID(id)

	if _, err := f.client.Collection(contactsCollection).Doc(docID(contact.ID)).Set(ctx, contact); err != nil {
		return goerr.Wrap(err, "failed to save contact to firestore", goerr.V("id", contact.ID))
	}
	return nil
}

// GetContact retrieves a contact by ID
func (f *Firestore) GetContact(ctx context.Context, id types.ContactID) (*model.Contact, error) {
	return getDoc[model.Contact](ctx, f.client.Collection(contactsCollection).Doc(docID(id)), "contact")
}

// ListContacts lists all contacts
func (f *Firestore) ListContacts(ctx context.Context) ([]*model.Contact, error) {
	return listDocs(ctx, f.client.Collection(contactsCollection).Query, "contacts",
		func(c *model.Contact) types.ContactID { return c.ID })
}

// ListContactsByClient lists contacts of a client
func (f *Firestore) ListContactsByClient(ctx context.Context, clientID types.ClientID) ([]*model.Contact, error) {
	query := f.client.Collection(contactsCollection).Where(fieldClientID, "==", int64(clientID))
	return listDocs(ctx, query, "contacts",
		func(c *model.Contact) types.ContactID { return c.ID })
}

// UpdateContact replaces an existing contact
func (f *Firestore) UpdateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}
	return f.replaceDoc(ctx, f.client.Collection(contactsCollection).Doc(docID(contact.ID)), contact, "contact")
}

// DeleteContact deletes a contact
func (f *Firestore) DeleteContact(ctx context.Context, id types.ContactID) error {
	return deleteDoc(ctx, f.client.Collection(contactsCollection).Doc(docID(id)), "contact")
}

// CreateOpportunity stores a new opportunity with the next sequential ID
func (f *Firestore) CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}
	id, err := f.nextID(ctx, opportunitiesCollection)
	if err != nil {
		return err
	}
	opportunity.ID = types.OpportunityID(id)

	if _, err := f.client.Collection(opportunitiesCollection).Doc(docID(opportunity.ID)).Set(ctx, opportunity); err != nil {
		return goerr.Wrap(err, "failed to save opportunity to firestore", goerr.V("id", opportunity.ID))
	}
	return nil
}

// GetOpportunity retrieves an opportunity by ID
func (f *Firestore) GetOpportunity(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	return getDoc[model.Opportunity](ctx, f.client.Collection(opportunitiesCollection).Doc(docID(id)), "opportunity")
}

// ListOpportunities lists all opportunities
func (f *Firestore) ListOpportunities(ctx context.Context) ([]*model.Opportunity, error) {
	return listDocs(ctx, f.client.Collection(opportunitiesCollection).Query, "opportunities",
		func(o *model.Opportunity) types.OpportunityID { return o.ID })
}

// ListOpportunitiesByClient lists opportunities of a client
func (f *Firestore) ListOpportunitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Opportunity, error) {
	query := f.client.Collection(opportunitiesCollection).Where(fieldClientID, "==", int64(clientID))
	return listDocs(ctx, query, "opportunities",
		func(o *model.Opportunity) types.OpportunityID { return o.ID })
}

// UpdateOpportunity replaces an existing opportunity
func (f *Firestore) UpdateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}
	return f.replaceDoc(ctx, f.client.Collection(opportunitiesCollection).Doc(docID(opportunity.ID)), opportunity, "opportunity")
}

// DeleteOpportunity deletes an opportunity
func (f *Firestore) DeleteOpportunity(ctx context.Context, id types.OpportunityID) error {
	return deleteDoc(ctx, f.client.Collection(opportunitiesCollection).Doc(docID(id)), "opportunity")
}

// CreateActivity stores a new activity with the next sequential ID
func (f *Firestore) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}
	id, err := f.nextID(ctx, activitiesCollection)
	if err != nil {
		return err
	}
	activity.ID = types.ActivityID(id)

	if _, err := f.client.Collection(activitiesCollection).Doc(docID(activity.ID)).Set(ctx, activity); err != nil {
		return goerr.Wrap(err, "failed to save activity to firestore", goerr.V("id", activity.ID))
	}
	return nil
}

// GetActivity retrieves an activity by ID
func (f *Firestore) GetActivity(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	return getDoc[model.Activity](ctx, f.client.Collection(activitiesCollection).Doc(docID(id)), "activity")
}

// ListActivities lists all activities
func (f *Firestore) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	return listDocs(ctx, f.client.Collection(activitiesCollection).Query, "activities",
		func(a *model.Activity) types.ActivityID { return a.ID })
}

// ListActivitiesByClient lists activities linked to a client
func (f *Firestore) ListActivitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Activity, error) {
	query := f.client.Collection(activitiesCollection).Where(fieldClientID, "==", int64(clientID))
	return listDocs(ctx, query, "activities",
		func(a *model.Activity) types.ActivityID { return a.ID })
}

// ListActivitiesByOpportunity lists activities linked to an opportunity
func (f *Firestore) ListActivitiesByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Activity, error) {
	query := f.client.Collection(activitiesCollection).Where(fieldOpportunityID, "==", int64(opportunityID))
	return listDocs(ctx, query, "activities",
		func(a *model.Activity) types.ActivityID { return a.ID })
}

// UpdateActivity replaces an existing activity
func (f *Firestore) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}
	return f.replaceDoc(ctx, f.client.Collection(activitiesCollection).Doc(docID(activity.ID)), activity, "activity")
}

// DeleteActivity deletes an activity
func (f *Firestore) DeleteActivity(ctx context.Context, id types.ActivityID) error {
	return deleteDoc(ctx, f.client.Collection(activitiesCollection).Doc(docID(id)), "activity")
}

// CreateProduct stores a new product with the next sequential ID
func (f *Firestore) CreateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}
	id, err := f.nextID(ctx, productsCollection)
	if err != nil {
		return err
	}
	product.ID = types.ProductID(id)

	if _, err := f.client.Collection(productsCollection).Doc(docID(product.ID)).Set(ctx, product); err != nil {
		return goerr.Wrap(err, "failed to save product to firestore", goerr.V("id", product.ID))
	}
	return nil
}

// GetProduct retrieves a product by ID
func (f *Firestore) GetProduct(ctx context.Context, id types.ProductID) (*model.Product, error) {
	return getDoc[model.Product](ctx, f.client.Collection(productsCollection).Doc(docID(id)), "product")
}

// ListProducts lists all products
func (f *Firestore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return listDocs(ctx, f.client.Collection(productsCollection).Query, "products",
		func(p *model.Product) types.ProductID { return p.ID })
}

// UpdateProduct replaces an existing product
func (f *Firestore) UpdateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}
	return f.replaceDoc(ctx, f.client.Collection(productsCollection).Doc(docID(product.ID)), product, "product")
}

// DeleteProduct deletes a product
func (f *Firestore) DeleteProduct(ctx context.Context, id types.ProductID) error {
	return deleteDoc(ctx, f.client.Collection(productsCollection).Doc(docID(id)), "product")
}

// GetSystemConfig returns the stored configuration or the defaults
func (f *Firestore) GetSystemConfig(ctx context.Context) (*model.SystemConfig, error) {
	cfg, err := getDoc[model.SystemConfig](ctx, f.client.Collection(systemConfigCollection).Doc(docID(int64(model.SystemConfigID))), "system config")
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewSystemConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// PutSystemConfig stores the singleton configuration
func (f *Firestore) PutSystemConfig(ctx context.Context, cfg *model.SystemConfig) error {
	if cfg == nil {
		return goerr.New("system config is nil")
	}
	row := *cfg
	row.ID = model.SystemConfigID

	if _, err := f.client.Collection(systemConfigCollection).Doc(docID(row.ID)).Set(ctx, &row); err != nil {
		return goerr.Wrap(err, "failed to save system config to firestore")
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
