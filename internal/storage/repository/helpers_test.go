package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/contrato-facil/internal/migrations"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("SKIP_DB_TESTS") == "true" {
		t.Skip("skipping database tests")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var s *Storage
	for range 10 {
		s, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() { _ = s.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, filepath.Join(root, "migrations")))

	return s
}

// createUserWithProfile создаёт учётную запись и профиль на заданном тарифе.
func createUserWithProfile(t *testing.T, s *Storage, email string, plan models.PlanType, counter int) string {
	t.Helper()
	ctx := context.Background()

	uid, err := s.RegisterUser(ctx, models.User{
		Email:          email,
		PasswordHash:   "hash",
		EmailConfirmed: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.CreateProfile(ctx, models.UserProfile{
		UID:                       uid,
		Email:                     email,
		DisplayName:               "Teste",
		PlanType:                  plan,
		ContractsCreatedThisMonth: counter,
		SubscriptionStatus:        models.SubscriptionActive,
	}))
	return uid
}

func newContract(userID, title string) models.Contract {
	return models.Contract{
		UserID:    userID,
		Title:     title,
		Type:      "compra_venda",
		Content:   "<h1>CONTRATO</h1>",
		Status:    models.ContractFinalized,
		Variables: models.FormValues{"vendedor_nome": "Ana"},
	}
}
