package testutil

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Import postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // Import file source driver
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/blackcloro/conta-repository/internal/config"
)

// PostgresContainer is a throwaway PostgreSQL server. Pool is for fixtures
// only; code under test connects through DBConfig.
type PostgresContainer struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	Config    PostgresConfig
	host      string
	port      int
}

type PostgresConfig struct {
	User     string
	Password string
	DBName   string
}

func NewPostgresContainer(ctx context.Context, cfg PostgresConfig) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     cfg.User,
			"POSTGRES_PASSWORD": cfg.Password,
			"POSTGRES_DB":       cfg.DBName,
		},
		// The server logs readiness twice: once for the init pass, once for real.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container external port: %w", err)
	}

	port, err := strconv.Atoi(mappedPort.Port())
	if err != nil {
		return nil, fmt.Errorf("failed to parse container port: %w", err)
	}

	pc := &PostgresContainer{
		Container: container,
		Config:    cfg,
		host:      host,
		port:      port,
	}

	var poolErr error
	for i := 0; i < 5; i++ {
		pc.Pool, poolErr = pgxpool.Connect(ctx, pc.URL())
		if poolErr == nil {
			break
		}
		log.Printf("Failed to connect to database, retrying in 2 seconds... (Attempt %d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if poolErr != nil {
		return nil, fmt.Errorf("failed to connect to database after retries: %w", poolErr)
	}

	return pc, nil
}

func (pc *PostgresContainer) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pc.Config.User, pc.Config.Password, pc.host, pc.port, pc.Config.DBName)
}

// DBConfig points the application config at the container.
func (pc *PostgresContainer) DBConfig() config.DBConfig {
	return config.DBConfig{
		Host:           pc.host,
		Port:           pc.port,
		Name:           pc.Config.DBName,
		User:           pc.Config.User,
		Password:       pc.Config.Password,
		ConnectTimeout: 10 * time.Second,
	}
}

// MigrateDB creates public.conta from testdata/migrations. The application
// itself never creates the table.
func (pc *PostgresContainer) MigrateDB() error {
	_, path, _, ok := runtime.Caller(0)
	if !ok {
		return fmt.Errorf("failed to get path")
	}
	migrations := filepath.Join(filepath.Dir(path), "testdata", "migrations")

	m, err := migrate.New("file://"+migrations, pc.URL())
	if err != nil {
		return err
	}
	defer func(m *migrate.Migrate) {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Printf("Error while closing migration: %v %v\n", srcErr, dbErr)
		}
	}(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func (pc *PostgresContainer) Terminate(ctx context.Context) error {
	if pc.Pool != nil {
		pc.Pool.Close()
	}
	return pc.Container.Terminate(ctx)
}
