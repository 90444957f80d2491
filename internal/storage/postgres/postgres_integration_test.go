//go:build integration

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/coverwise/internal/auth"
	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/lifecycle"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/sqlstore"
)

// Run with: go test -tags=integration ./internal/storage/postgres/...
type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	store     *sqlstore.Store
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("coverwise"),
		tcpostgres.WithUsername("coverwise"),
		tcpostgres.WithPassword("coverwise"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err, "failed to start postgres container")
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.store, err = New(ctx, dsn)
	s.Require().NoError(err)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.store.DB().ExecContext(context.Background(), "TRUNCATE claims, policies, policyholders")
	s.Require().NoError(err)
}

func (s *PostgresSuite) manager() *lifecycle.Manager {
	return lifecycle.New(s.store,
		lifecycle.WithHasher(auth.NewPasswordHasherWithCost(bcrypt.MinCost)),
		lifecycle.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *PostgresSuite) inTx(fn func(tx storage.Tx) error) error {
	tx, err := s.store.BeginTx(context.Background())
	s.Require().NoError(err)
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresSuite) TestDuplicateEmail() {
	ctx := context.Background()
	insert := func(id int64) error {
		return s.inTx(func(tx storage.Tx) error {
			return tx.InsertPolicyholder(ctx, &models.Policyholder{
				ID: id, Name: "A", Email: "same@example.com", PasswordHash: "x",
			})
		})
	}

	s.Require().NoError(insert(1))
	err := insert(2)
	s.True(errors.Is(err, storage.ErrDuplicateEmail), "got %v", err)
}

func (s *PostgresSuite) TestDuplicateID() {
	ctx := context.Background()
	insert := func(email string) error {
		return s.inTx(func(tx storage.Tx) error {
			return tx.InsertPolicyholder(ctx, &models.Policyholder{
				ID: 5, Name: "A", Email: email, PasswordHash: "x",
			})
		})
	}

	s.Require().NoError(insert("a@example.com"))
	err := insert("b@example.com")
	s.True(errors.Is(err, storage.ErrDuplicateID), "got %v", err)
}

func (s *PostgresSuite) TestNamespacesAreIndependent() {
	ctx := context.Background()
	err := s.inTx(func(tx storage.Tx) error {
		if err := tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 9, Name: "A", Email: "a@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		if err := tx.InsertPolicy(ctx, &models.Policy{ID: 9, PolicyholderID: 9, Coverage: 10, Status: "active"}); err != nil {
			return err
		}
		return tx.InsertClaim(ctx, &models.Claim{ID: 9, PolicyID: 9, PolicyholderID: 9, Amount: 1, Status: models.ClaimStatusPending})
	})
	s.Require().NoError(err)

	_ = s.inTx(func(tx storage.Tx) error {
		exists, err := tx.IDExists(ctx, storage.NamespaceClaims, 10)
		s.Require().NoError(err)
		s.False(exists)
		exists, err = tx.IDExists(ctx, storage.NamespacePolicies, 9)
		s.Require().NoError(err)
		s.True(exists)
		return nil
	})
}

func (s *PostgresSuite) TestConcurrentClaimsAcrossManagers() {
	ctx := context.Background()
	// Separate managers do not share in-process locks, so only the row lock
	// keeps the two filings apart.
	first, second := s.manager(), s.manager()

	holder, err := first.CreatePolicyholder(ctx, "Racer", "race@example.com", "correct-horse")
	s.Require().NoError(err)
	policy, err := first.CreatePolicy(ctx, holder.ID, 100, "")
	s.Require().NoError(err)

	var admitted, exceeded atomic.Int32
	var g errgroup.Group
	for _, m := range []*lifecycle.Manager{first, second} {
		g.Go(func() error {
			_, err := m.FileClaim(ctx, holder.ID, policy.ID, 60)
			switch {
			case err == nil:
				admitted.Add(1)
			case dErrors.HasCode(err, dErrors.CodeCoverageExceeded):
				exceeded.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), admitted.Load())
	s.Equal(int32(1), exceeded.Load())

	exposure, err := first.PolicyExposure(ctx, holder.ID, policy.ID)
	s.Require().NoError(err)
	s.InDelta(60.0, exposure.Outstanding, 1e-9)
}

func (s *PostgresSuite) TestDeletePolicyholderCascade() {
	ctx := context.Background()
	m := s.manager()

	admin, err := m.BootstrapAdmin(ctx, "Admin", "admin@example.com", "correct-horse")
	s.Require().NoError(err)
	holder, err := m.CreatePolicyholder(ctx, "Holder", "holder@example.com", "correct-horse")
	s.Require().NoError(err)
	policy, err := m.CreatePolicy(ctx, holder.ID, 100, "")
	s.Require().NoError(err)
	_, err = m.FileClaim(ctx, holder.ID, policy.ID, 10)
	s.Require().NoError(err)

	s.Require().NoError(m.DeletePolicyholder(ctx, admin.ID, holder.ID))

	var claims int
	err = s.store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM claims").Scan(&claims)
	s.Require().NoError(err)
	s.Zero(claims)
}
