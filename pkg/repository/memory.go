package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// table keeps rows by value so stored entities never alias caller memory
type table[K ~int64, V any] struct {
	rows    map[K]V
	counter K
}

func newTable[K ~int64, V any]() *table[K, V] {
	return &table[K, V]{rows: make(map[K]V)}
}

func (t *table[K, V]) nextID() K {
	t.counter++
	return t.counter
}

func (t *table[K, V]) get(id K) (*V, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return &row, true
}

// list returns copies of matching rows in ascending ID order
func (t *table[K, V]) list(match func(*V) bool) []*V {
	ids := make([]K, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]*V, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(&row) {
			result = append(result, &row)
		}
	}
	return result
}

func (t *table[K, V]) replace(id K, row V) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[K, V]) remove(id K) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu            sync.RWMutex
	clients       *table[types.ClientID, model.Client]
	contacts      *table[types.ContactID, model.Contact]
	opportunities *table[types.OpportunityID, model.Opportunity]
	activities    *table[types.ActivityID, model.Activity]
	products      *table[types.ProductID, model.Product]
	systemConfig  *model.SystemConfig
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		clients:       newTable[types.ClientID, model.Client](),
		contacts:      newTable[types.ContactID, model.Contact](),
		opportunities: newTable[types.OpportunityID, model.Opportunity](),
		activities:    newTable[types.ActivityID, model.Activity](),
		products:      newTable[types.ProductID, model.Product](),
	}
}

// ResolveRecipients returns recipients for the existing IDs in ascending ID order
func (m *Memory) ResolveRecipients(ctx context.Context, ids []types.ClientID, channel types.Channel) ([]*model.Recipient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	recipients := make([]*model.Recipient, 0, len(unique))
	for _, id := range unique {
		if client, ok := m.clients.get(id); ok {
			recipients = append(recipients, client.Recipient(channel))
		}
	}
	return recipients, nil
}

// CreateClient stores a new client and assigns its ID
func (m *Memory) CreateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	client.ID = m.clients.nextID()
	m.clients.rows[client.ID] = *client
	return nil
}

// GetClient retrieves a client by ID
func (m *Memory) GetClient(ctx context.Context, id types.ClientID) (*model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients.get(id)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "client not found", goerr.V("id", id))
	}
	return client, nil
}

// ListClients lists all clients
func (m *Memory) ListClients(ctx context.Context) ([]*model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.clients.list(nil), nil
}

// UpdateClient replaces an existing client
func (m *Memory) UpdateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.clients.replace(client.ID, *client) {
		return goerr.Wrap(model.ErrNotFound, "client not found", goerr.V("id", client.ID))
	}
	return nil
}

// DeleteClient deletes a client
func (m *Memory) DeleteClient(ctx context.Context, id types.ClientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.clients.remove(id) {
		return goerr.Wrap(model.ErrNotFound, "client not found", goerr.V("id", id))
	}
	return nil
}

// CreateContact stores a new contact and assigns its ID
func (m *Memory) CreateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact.ID = m.contacts.nextID()
	m.contacts.rows[contact.ID] = *contact
	return nil
}

// GetContact retrieves a contact by ID
func (m *Memory) GetContact(ctx context.Context, id types.ContactID) (*model.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contact, ok := m.contacts.get(id)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "contact not found", goerr.V("id", id))
	}
	return contact, nil
}

// ListContacts lists all contacts
func (m *Memory) ListContacts(ctx context.Context) ([]*model.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.contacts.list(nil), nil
}

// ListContactsByClient lists contacts of a client
func (m *Memory) ListContactsByClient(ctx context.Context, clientID types.ClientID) ([]*model.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.contacts.list(func(c *model.Contact) bool {
		return c.ClientID == clientID
	}), nil
}

// UpdateContact replaces an existing contact
func (m *Memory) UpdateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.contacts.replace(contact.ID, *contact) {
		return goerr.Wrap(model.ErrNotFound, "contact not found", goerr.V("id", contact.ID))
	}
	return nil
}

// DeleteContact deletes a contact
func (m *Memory) DeleteContact(ctx context.Context, id types.ContactID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.contacts.remove(id) {
		return goerr.Wrap(model.ErrNotFound, "contact not found", goerr.V("id", id))
	}
	return nil
}

// CreateOpportunity stores a new opportunity and assigns its ID
func (m *Memory) CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	opportunity.ID = m.opportunities.nextID()
	m.opportunities.rows[opportunity.ID] = *opportunity
	return nil
}

// GetOpportunity retrieves an opportunity by ID
func (m *Memory) GetOpportunity(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opportunity, ok := m.opportunities.get(id)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "opportunity not found", goerr.V("id", id))
	}
	return opportunity, nil
}

// ListOpportunities lists all opportunities
func (m *Memory) ListOpportunities(ctx context.Context) ([]*model.Opportunity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.opportunities.list(nil), nil
}

// ListOpportunitiesByClient lists opportunities of a client
func (m *Memory) ListOpportunitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Opportunity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.opportunities.list(func(o *model.Opportunity) bool {
		return o.ClientID == clientID
	}), nil
}

// UpdateOpportunity replaces an existing opportunity
func (m *Memory) UpdateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.opportunities.replace(opportunity.ID, *opportunity) {
		return goerr.Wrap(model.ErrNotFound, "opportunity not found", goerr.V("id", opportunity.ID))
	}
	return nil
}

// DeleteOpportunity deletes an opportunity
func (m *Memory) DeleteOpportunity(ctx context.Context, id types.OpportunityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.opportunities.remove(id) {
		return goerr.Wrap(model.ErrNotFound, "opportunity not found", goerr.V("id", id))
	}
	return nil
}

// CreateActivity stores a new activity and assigns its ID
func (m *Memory) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	activity.ID = m.activities.nextID()
	m.activities.rows[activity.ID] = *activity
	return nil
}

// GetActivity retrieves an activity by ID
func (m *Memory) GetActivity(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	activity, ok := m.activities.get(id)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "activity not found", goerr.V("id", id))
	}
	return activity, nil
}

// ListActivities lists all activities
func (m *Memory) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.activities.list(nil), nil
}

// ListActivitiesByClient lists activities linked to a client
func (m *Memory) ListActivitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.activities.list(func(a *model.Activity) bool {
		return a.ClientID != nil && *a.ClientID == clientID
	}), nil
}

// ListActivitiesByOpportunity lists activities linked to an opportunity
func (m *Memory) ListActivitiesByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.activities.list(func(a *model.Activity) bool {
		return a.OpportunityID != nil && *a.OpportunityID == opportunityID
	}), nil
}

// UpdateActivity replaces an existing activity
func (m *Memory) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activities.replace(activity.ID, *activity) {
		return goerr.Wrap(model.ErrNotFound, "activity not found", goerr.V("id", activity.ID))
	}
	return nil
}

// DeleteActivity deletes an activity
func (m *Memory) DeleteActivity(ctx context.Context, id types.ActivityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activities.remove(id) {
		return goerr.Wrap(model.ErrNotFound, "activity not found", goerr.V("id", id))
	}
	return nil
}

// CreateProduct stores a new product and assigns its ID
func (m *Memory) CreateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = m.products.nextID()
	m.products.rows[product.ID] = *product
	return nil
}

// GetProduct retrieves a product by ID
func (m *Memory) GetProduct(ctx context.Context, id types.ProductID) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products.get(id)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "product not found", goerr.V("id", id))
	}
	return product, nil
}

// ListProducts lists all products
func (m *Memory) ListProducts(ctx context.Context) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.products.list(nil), nil
}

// UpdateProduct replaces an existing product
func (m *Memory) UpdateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.products.replace(product.ID, *product) {
		return goerr.Wrap(model.ErrNotFound, "product not found", goerr.V("id", product.ID))
	}
	return nil
}

// DeleteProduct deletes a product
func (m *Memory) DeleteProduct(ctx context.Context, id types.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.products.remove(id) {
		return goerr.Wrap(model.ErrNotFound, "product not found", goerr.V("id", id))
	}
	return nil
}

// GetSystemConfig returns the stored configuration or the defaults
func (m *Memory) GetSystemConfig(ctx context.Context) (*model.SystemConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.systemConfig == nil {
		return model.NewSystemConfig(), nil
	}
	cfgCopy := *m.systemConfig
	return &cfgCopy, nil
}

// PutSystemConfig stores the singleton configuration
func (m *Memory) PutSystemConfig(ctx context.Context, cfg *model.SystemConfig) error {
	if cfg == nil {
		return goerr.New("system config is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfgCopy := *cfg
	cfgCopy.ID = model.SystemConfigID
	m.systemConfig = &cfgCopy
	return nil
}

// Close closes the repository (no-op for memory)
func (m *Memory) Close() error {
	return nil
}
