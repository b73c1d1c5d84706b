package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite implements Repository interface with a SQLite database through gorm
type SQLite struct {
	db *gorm.DB
}

// NewSQLite opens (or creates) the database file and migrates the schema
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	log := ctxlog.From(ctx)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: &gormLogger{fallback: log},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&model.Client{},
		&model.Contact{},
		&model.Opportunity{},
		&model.Activity{},
		&model.Product{},
		&model.SystemConfig{},
	); err != nil {
		return nil, goerr.Wrap(err, "failed to migrate sqlite schema", goerr.V("path", path))
	}

	log.Info("SQLite repository initialized", "path", path)

	return &SQLite{db: db}, nil
}

func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", id))
	}
	return goerr.Wrap(err, "failed to get "+entity, goerr.V("id", id))
}

// updateRow writes every column of row and reports a missing row as not found
func (s *SQLite) updateRow(ctx context.Context, row any, entity string, id int64) error {
	result := s.db.WithContext(ctx).Model(row).Where("id = ?", id).Select("*").Updates(row)
	if result.Error != nil {
		return goerr.Wrap(result.Error, "failed to update "+entity, goerr.V("id", id))
	}
	if result.RowsAffected == 0 {
		return goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", id))
	}
	return nil
}

func (s *SQLite) deleteRow(ctx context.Context, row any, entity string, id int64) error {
	result := s.db.WithContext(ctx).Delete(row, id)
	if result.Error != nil {
		return goerr.Wrap(result.Error, "failed to delete "+entity, goerr.V("id", id))
	}
	if result.RowsAffected == 0 {
		return goerr.Wrap(model.ErrNotFound, entity+" not found", goerr.V("id", id))
	}
	return nil
}

// ResolveRecipients returns recipients for the existing IDs in ascending ID order
func (s *SQLite) ResolveRecipients(ctx context.Context, ids []types.ClientID, channel types.Channel) ([]*model.Recipient, error) {
	if len(ids) == 0 {
		return []*model.Recipient{}, nil
	}

	var clients []*model.Client
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&clients).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to resolve recipients", goerr.V("count", len(ids)))
	}

	recipients := make([]*model.Recipient, 0, len(clients))
	for _, client := range clients {
		recipients = append(recipients, client.Recipient(channel))
	}
	return recipients, nil
}

// CreateClient inserts a client and assigns its ID
func (s *SQLite) CreateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}
	client.ID = 0
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return goerr.Wrap(err, "failed to create client")
	}
	return nil
}

// GetClient retrieves a client by ID
func (s *SQLite) GetClient(ctx context.Context, id types.ClientID) (*model.Client, error) {
	var client model.Client
	if err := s.db.WithContext(ctx).First(&client, id.Int64()).Error; err != nil {
		return nil, notFound(err, "client", id)
	}
	return &client, nil
}

// ListClients lists all clients
func (s *SQLite) ListClients(ctx context.Context) ([]*model.Client, error) {
	clients := []*model.Client{}
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list clients")
	}
	return clients, nil
}

// UpdateClient replaces an existing client
func (s *SQLite) UpdateClient(ctx context.Context, client *model.Client) error {
	if client == nil {
		return goerr.New("client is nil")
	}
	return s.updateRow(ctx, client, "client", int64(client.ID))
}

// DeleteClient deletes a client
func (s *SQLite) DeleteClient(ctx context.Context, id types.ClientID) error {
	return s.deleteRow(ctx, &model.Client{}, "client", int64(id))
}

// CreateContact inserts a contact and assigns its ID
func (s *SQLite) CreateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}
	contact.ID = 0
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		return goerr.Wrap(err, "failed to create contact")
	}
	return nil
}

// GetContact retrieves a contact by ID
func (s *SQLite) GetContact(ctx context.Context, id types.ContactID) (*model.Contact, error) {
	var contact model.Contact
	if err := s.db.WithContext(ctx).First(&contact, int64(id)).Error; err != nil {
		return nil, notFound(err, "contact", id)
	}
	return &contact, nil
}

// ListContacts lists all contacts
func (s *SQLite) ListContacts(ctx context.Context) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	if err := s.db.WithContext(ctx).Order("id").Find(&contacts).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list contacts")
	}
	return contacts, nil
}

// ListContactsByClient lists contacts of a client
func (s *SQLite) ListContactsByClient(ctx context.Context, clientID types.ClientID) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	if err := s.db.WithContext(ctx).Where("client_id = ?", int64(clientID)).Order("id").Find(&contacts).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list contacts", goerr.V("client_id", clientID))
	}
	return contacts, nil
}

// UpdateContact replaces an existing contact
func (s *SQLite) UpdateContact(ctx context.Context, contact *model.Contact) error {
	if contact == nil {
		return goerr.New("contact is nil")
	}
	return s.updateRow(ctx, contact, "contact", int64(contact.ID))
}

// DeleteContact deletes a contact
func (s *SQLite) DeleteContact(ctx context.Context, id types.ContactID) error {
	return s.deleteRow(ctx, &model.Contact{}, "contact", int64(id))
}

// CreateOpportunity inserts an opportunity and assigns its ID
func (s *SQLite) CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}
	opportunity.ID = 0
	if err := s.db.WithContext(ctx).Create(opportunity).Error; err != nil {
		return goerr.Wrap(err, "failed to create opportunity")
	}
	return nil
}

// GetOpportunity retrieves an opportunity by ID
func (s *SQLite) GetOpportunity(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	var opportunity model.Opportunity
	if err := s.db.WithContext(ctx).First(&opportunity, int64(id)).Error; err != nil {
		return nil, notFound(err, "opportunity", id)
	}
	return &opportunity, nil
}

// ListOpportunities lists all opportunities
func (s *SQLite) ListOpportunities(ctx context.Context) ([]*model.Opportunity, error) {
	opportunities := []*model.Opportunity{}
	if err := s.db.WithContext(ctx).Order("id").Find(&opportunities).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list opportunities")
	}
	return opportunities, nil
}

// ListOpportunitiesByClient lists opportunities of a client
func (s *SQLite) ListOpportunitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Opportunity, error) {
	opportunities := []*model.Opportunity{}
	if err := s.db.WithContext(ctx).Where("client_id = ?", int64(clientID)).Order("id").Find(&opportunities).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list opportunities", goerr.V("client_id", clientID))
	}
	return opportunities, nil
}

// UpdateOpportunity replaces an existing opportunity
func (s *SQLite) UpdateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	if opportunity == nil {
		return goerr.New("opportunity is nil")
	}
	return s.updateRow(ctx, opportunity, "opportunity", int64(opportunity.ID))
}

// DeleteOpportunity deletes an opportunity
func (s *SQLite) DeleteOpportunity(ctx context.Context, id types.OpportunityID) error {
	return s.deleteRow(ctx, &model.Opportunity{}, "opportunity", int64(id))
}

// CreateActivity inserts an activity and assigns its ID
func (s *SQLite) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}
	activity.ID = 0
	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return goerr.Wrap(err, "failed to create activity")
	}
	return nil
}

// GetActivity retrieves an activity by ID
func (s *SQLite) GetActivity(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	var activity model.Activity
	if err := s.db.WithContext(ctx).First(&activity, int64(id)).Error; err != nil {
		return nil, notFound(err, "activity", id)
	}
	return &activity, nil
}

// ListActivities lists all activities
func (s *SQLite) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	if err := s.db.WithContext(ctx).Order("id").Find(&activities).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list activities")
	}
	return activities, nil
}

// ListActivitiesByClient lists activities linked to a client
func (s *SQLite) ListActivitiesByClient(ctx context.Context, clientID types.ClientID) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	if err := s.db.WithContext(ctx).Where("client_id = ?", int64(clientID)).Order("id").Find(&activities).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list activities", goerr.V("client_id", clientID))
	}
	return activities, nil
}

// ListActivitiesByOpportunity lists activities linked to an opportunity
func (s *SQLite) ListActivitiesByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	if err := s.db.WithContext(ctx).Where("opportunity_id = ?", int64(opportunityID)).Order("id").Find(&activities).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list activities", goerr.V("opportunity_id", opportunityID))
	}
	return activities, nil
}

// UpdateActivity replaces an existing activity
func (s *SQLite) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	if activity == nil {
		return goerr.New("activity is nil")
	}
	return s.updateRow(ctx, activity, "activity", int64(activity.ID))
}

// DeleteActivity deletes an activity
func (s *SQLite) DeleteActivity(ctx context.Context, id types.ActivityID) error {
	return s.deleteRow(ctx, &model.Activity{}, "activity", int64(id))
}

// CreateProduct inserts a product and assigns its ID
func (s *SQLite) CreateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}
	product.ID = 0
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return goerr.Wrap(err, "failed to create product")
	}
	return nil
}

// GetProduct retrieves a product by ID
func (s *SQLite) GetProduct(ctx context.Context, id types.ProductID) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, int64(id)).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	return &product, nil
}

// ListProducts lists all products
func (s *SQLite) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products := []*model.Product{}
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list products")
	}
	return products, nil
}

// UpdateProduct replaces an existing product
func (s *SQLite) UpdateProduct(ctx context.Context, product *model.Product) error {
	if product == nil {
		return goerr.New("product is nil")
	}
	return s.updateRow(ctx, product, "product", int64(product.ID))
}

// DeleteProduct deletes a product
func (s *SQLite) DeleteProduct(ctx context.Context, id types.ProductID) error {
	return s.deleteRow(ctx, &model.Product{}, "product", int64(id))
}

// GetSystemConfig returns the stored configuration or the defaults
func (s *SQLite) GetSystemConfig(ctx context.Context) (*model.SystemConfig, error) {
	var cfg model.SystemConfig
	err := s.db.WithContext(ctx).First(&cfg, model.SystemConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewSystemConfig(), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get system config")
	}
	return &cfg, nil
}

// PutSystemConfig upserts the singleton configuration row
func (s *SQLite) PutSystemConfig(ctx context.Context, cfg *model.SystemConfig) error {
	if cfg == nil {
		return goerr.New("system config is nil")
	}
	row := *cfg
	row.ID = model.SystemConfigID
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return goerr.Wrap(err, "failed to save system config")
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get sql.DB")
	}
	return sqlDB.Close()
}

// gormLogger routes gorm logs to the request-scoped logger when there is one
type gormLogger struct {
	fallback *slog.Logger
}

var _ logger.Interface = (*gormLogger)(nil)

func (l *gormLogger) from(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return l.fallback
	}
	return ctxlog.From(ctx)
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.from(ctx).Info(msg, "data", data)
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.from(ctx).Warn(msg, "data", data)
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.from(ctx).Error(msg, "data", data)
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	elapsed := time.Since(begin)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.from(ctx).Error("SQL query failed",
			"error", err,
			"sql", sql,
			"rows", rows,
			"elapsed", elapsed,
		)
		return
	}
	l.from(ctx).Debug("SQL query",
		"sql", sql,
		"rows", rows,
		"elapsed", elapsed,
	)
}
