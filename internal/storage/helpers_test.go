package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/orange-subscription/internal/migrations"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

const postgresPort = nat.Port("5432/tcp")

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя без подписки
func (f *TestDataFactory) CreateUser(t *testing.T, username, phone, orangeMoney string) int {
	t.Helper()
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, phone, orange_money, password_hash)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		username, phone, orangeMoney, "hashedpassword").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscribedUser создает пользователя с активированной в момент at подпиской
func (f *TestDataFactory) CreateSubscribedUser(t *testing.T, username, phone, orangeMoney string, at time.Time) int {
	t.Helper()
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO users
		(username, phone, orange_money, password_hash, is_subscribed, subscribe_date)
		VALUES ($1, $2, $3, $4, true, $5) RETURNING id`,
		username, phone, orangeMoney, "hashedpassword", at).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestUser возвращает стандартного тестового пользователя
func GetTestUser() models.User {
	return models.User{
		Username:     "bob",
		Phone:        "70000001",
		OrangeMoney:  "70123456",
		PasswordHash: "hashedpassword",
	}
}

func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(postgresPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err, "failed to get host")
	port, err := postgresContainer.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to apply migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
