package repository_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/repository"
)

// missingClientID is far above any ID a test run allocates
const missingClientID = types.ClientID(1 << 40)

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("CreateClient", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		first := model.NewClient("ACME Ltda")
		first.Email = "contato@acme.com.br"
		gt.NoError(t, repo.CreateClient(ctx, first))

		second := model.NewClient("Globex")
		gt.NoError(t, repo.CreateClient(ctx, second))

		gt.True(t, first.ID > 0)
		gt.True(t, second.ID > first.ID)

		retrieved, err := repo.GetClient(ctx, first.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.ID, first.ID)
		gt.Equal(t, retrieved.Name, "ACME Ltda")
		gt.Equal(t, retrieved.Email, "contato@acme.com.br")
		gt.True(t, first.CreatedAt.Sub(retrieved.CreatedAt).Abs() < time.Second)
	})

	t.Run("CreateClient_IgnoresGivenID", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		existing := model.NewClient("Existing")
		gt.NoError(t, repo.CreateClient(ctx, existing))

		client := model.NewClient("Another")
		client.ID = existing.ID
		gt.NoError(t, repo.CreateClient(ctx, client))
		gt.NotEqual(t, client.ID, existing.ID)

		retrieved, err := repo.GetClient(ctx, existing.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Name, "Existing")
	})

	t.Run("GetClient_NotFound", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		_, err := repo.GetClient(context.Background(), missingClientID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("UpdateClient", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		client := model.NewClient("Initech")
		gt.NoError(t, repo.CreateClient(ctx, client))

		client.Mobile = "+5511988887777"
		client.HasWhatsApp = true
		gt.NoError(t, repo.UpdateClient(ctx, client))

		retrieved, err := repo.GetClient(ctx, client.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Mobile, "+5511988887777")
		gt.True(t, retrieved.HasWhatsApp)

		missing := model.NewClient("Ghost")
		missing.ID = missingClientID
		err = repo.UpdateClient(ctx, missing)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("DeleteClient", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		client := model.NewClient("Umbrella")
		gt.NoError(t, repo.CreateClient(ctx, client))
		gt.NoError(t, repo.DeleteClient(ctx, client.ID))

		_, err := repo.GetClient(ctx, client.ID)
		gt.True(t, errors.Is(err, model.ErrNotFound))

		err = repo.DeleteClient(ctx, client.ID)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("ListClients", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		a := model.NewClient("A")
		b := model.NewClient("B")
		gt.NoError(t, repo.CreateClient(ctx, a))
		gt.NoError(t, repo.CreateClient(ctx, b))

		clients, err := repo.ListClients(ctx)
		gt.NoError(t, err)

		var ids []types.ClientID
		for _, c := range clients {
			ids = append(ids, c.ID)
		}
		gt.True(t, slices.Contains(ids, a.ID))
		gt.True(t, slices.Contains(ids, b.ID))
		gt.True(t, slices.IsSorted(ids))
	})

	t.Run("ResolveRecipients", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		withEmail := model.NewClient("Maria")
		withEmail.Email = "maria@example.com"
		withEmail.Mobile = "+5511988887777"
		gt.NoError(t, repo.CreateClient(ctx, withEmail))

		noEmail := model.NewClient("João")
		noEmail.Phone = "+551133334444"
		gt.NoError(t, repo.CreateClient(ctx, noEmail))

		ids := []types.ClientID{noEmail.ID, missingClientID, withEmail.ID, noEmail.ID}

		recipients, err := repo.ResolveRecipients(ctx, ids, types.ChannelEmail)
		gt.NoError(t, err)
		gt.Equal(t, len(recipients), 2)
		gt.Equal(t, recipients[0].ID, withEmail.ID)
		gt.Equal(t, recipients[0].Address.Value, "maria@example.com")
		gt.True(t, recipients[0].HasAddress)
		gt.Equal(t, recipients[1].ID, noEmail.ID)
		gt.False(t, recipients[1].HasAddress)

		recipients, err = repo.ResolveRecipients(ctx, ids, types.ChannelWhatsApp)
		gt.NoError(t, err)
		gt.Equal(t, len(recipients), 2)
		gt.Equal(t, recipients[0].Address.Value, "+5511988887777")
		gt.False(t, recipients[1].HasAddress)

		recipients, err = repo.ResolveRecipients(ctx, []types.ClientID{missingClientID}, types.ChannelEmail)
		gt.NoError(t, err)
		gt.Equal(t, len(recipients), 0)
	})

	t.Run("Contacts", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		client := model.NewClient("Hooli")
		gt.NoError(t, repo.CreateClient(ctx, client))

		contact := &model.Contact{ClientID: client.ID, Name: "Gavin", Email: "gavin@hooli.com"}
		gt.NoError(t, repo.CreateContact(ctx, contact))
		gt.True(t, contact.ID > 0)

		other := &model.Contact{ClientID: missingClientID, Name: "Elsewhere"}
		gt.NoError(t, repo.CreateContact(ctx, other))

		byClient, err := repo.ListContactsByClient(ctx, client.ID)
		gt.NoError(t, err)
		gt.Equal(t, len(byClient), 1)
		gt.Equal(t, byClient[0].Name, "Gavin")

		contact.JobTitle = "CEO"
		gt.NoError(t, repo.UpdateContact(ctx, contact))
		retrieved, err := repo.GetContact(ctx, contact.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.JobTitle, "CEO")

		gt.NoError(t, repo.DeleteContact(ctx, contact.ID))
		gt.NoError(t, repo.DeleteContact(ctx, other.ID))
		_, err = repo.GetContact(ctx, contact.ID)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("OpportunitiesAndActivities", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		client := model.NewClient("Stark")
		gt.NoError(t, repo.CreateClient(ctx, client))

		opp := model.NewOpportunity(client.ID, "Armor upgrade")
		opp.Value = 15000.5
		opp.Probability = 40
		gt.NoError(t, repo.CreateOpportunity(ctx, opp))

		opps, err := repo.ListOpportunitiesByClient(ctx, client.ID)
		gt.NoError(t, err)
		gt.Equal(t, len(opps), 1)
		gt.Equal(t, opps[0].Value, 15000.5)
		gt.Equal(t, opps[0].Status, model.OpportunityStatusProspecting)

		activity := model.NewActivity("Meeting")
		activity.ClientID = &client.ID
		activity.OpportunityID = &opp.ID
		gt.NoError(t, repo.CreateActivity(ctx, activity))

		unlinked := model.NewActivity("Call")
		gt.NoError(t, repo.CreateActivity(ctx, unlinked))

		byClient, err := repo.ListActivitiesByClient(ctx, client.ID)
		gt.NoError(t, err)
		gt.Equal(t, len(byClient), 1)
		gt.Equal(t, byClient[0].ID, activity.ID)

		byOpp, err := repo.ListActivitiesByOpportunity(ctx, opp.ID)
		gt.NoError(t, err)
		gt.Equal(t, len(byOpp), 1)
		gt.Equal(t, byOpp[0].Kind, "Meeting")

		opp.Status = "Won"
		gt.NoError(t, repo.UpdateOpportunity(ctx, opp))
		retrieved, err := repo.GetOpportunity(ctx, opp.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Status, "Won")

		gt.NoError(t, repo.DeleteActivity(ctx, activity.ID))
		gt.NoError(t, repo.DeleteActivity(ctx, unlinked.ID))
		gt.NoError(t, repo.DeleteOpportunity(ctx, opp.ID))
		_, err = repo.GetOpportunity(ctx, opp.ID)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("Products", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		product := &model.Product{Name: "CAD License", Price: 1999.9}
		gt.NoError(t, repo.CreateProduct(ctx, product))

		products, err := repo.ListProducts(ctx)
		gt.NoError(t, err)
		gt.A(t, products).Longer(0)

		product.Price = 2499
		gt.NoError(t, repo.UpdateProduct(ctx, product))
		retrieved, err := repo.GetProduct(ctx, product.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Price, 2499.0)

		gt.NoError(t, repo.DeleteProduct(ctx, product.ID))
		err = repo.DeleteProduct(ctx, product.ID)
		gt.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("SystemConfig", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		cfg, err := repo.GetSystemConfig(ctx)
		gt.NoError(t, err)
		gt.Equal(t, cfg.ID, int64(model.SystemConfigID))

		cfg.EmailServer = "smtp.example.com"
		cfg.EmailPort = 587
		cfg.EmailUser = "crm@example.com"
		cfg.EmailPassword = "s3cret"
		cfg.EmailUseTLS = false
		cfg.CompanyName = "HermesCAD"
		gt.NoError(t, repo.PutSystemConfig(ctx, cfg))

		stored, err := repo.GetSystemConfig(ctx)
		gt.NoError(t, err)
		gt.Equal(t, stored.EmailServer, "smtp.example.com")
		gt.Equal(t, stored.EmailPort, 587)
		gt.Equal(t, stored.EmailPassword, "s3cret")
		gt.False(t, stored.EmailUseTLS)
		gt.Equal(t, stored.CompanyName, "HermesCAD")

		stored.Slogan = "Design faster"
		gt.NoError(t, repo.PutSystemConfig(ctx, stored))
		again, err := repo.GetSystemConfig(ctx)
		gt.NoError(t, err)
		gt.Equal(t, again.Slogan, "Design faster")
		gt.Equal(t, again.EmailServer, "smtp.example.com")
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	client := model.NewClient("Original")
	gt.NoError(t, repo.CreateClient(ctx, client))

	client.Name = "Mutated by caller"
	retrieved, err := repo.GetClient(ctx, client.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Name, "Original")

	retrieved.Name = "Mutated again"
	again, err := repo.GetClient(ctx, client.ID)
	gt.NoError(t, err)
	gt.Equal(t, again.Name, "Original")
}

func TestMemoryRepositoryConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	const n = 50
	ids := make([]types.ClientID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := model.NewClient("Concurrent")
			gt.NoError(t, repo.CreateClient(ctx, client))
			ids[i] = client.ID
		}(i)
	}
	wg.Wait()

	slices.Sort(ids)
	gt.Equal(t, len(slices.Compact(ids)), n)
}

func TestSQLiteRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(os.Stdout, nil)))
		repo, err := repository.NewSQLite(ctx, filepath.Join(t.TempDir(), "hermescad.db"))
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestFirestoreRepository(t *testing.T) {
	// Skip test if Firestore test environment variables are not set
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err)
		return repo
	})
}
