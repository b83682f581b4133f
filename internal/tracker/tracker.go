// Package tracker applies the completion engine to stored records on behalf
// of an acting user. It owns visibility and authorization; the engine owns
// the rules.
package tracker

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/studyhub/internal/db"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

// Service is the entry point for every user-facing operation.
type Service struct {
	db     *db.DB
	engine *engine.Engine
	log    *slog.Logger
}

// New creates a service over an open database.
func New(store *db.DB, eng *engine.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: store, engine: eng, log: logger}
}

// Engine returns the engine the service computes with.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// mutated logs a successful state change. Every mutation gets its own
// operation id so log lines from one request can be correlated.
func (s *Service) mutated(op string, actor models.Actor, id int64, attrs ...any) {
	attrs = append([]any{
		"op", op,
		"op_id", uuid.Must(uuid.NewV7()).String(),
		"actor", actor.ID,
		"id", id,
	}, attrs...)
	s.log.Info("mutation", attrs...)
}

// notFound turns a missing row into a NOT_FOUND error and wraps anything else.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return engine.NewNotFoundError(what, id)
	}
	if engine.CodeOf(err) != "" {
		return err
	}
	return fmt.Errorf("%s %d: %w", what, id, err)
}

// CreateUser registers an identity. Names are unique regardless of case.
func (s *Service) CreateUser(name string, role models.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, engine.NewValidationError("user name is required")
	}
	role, err := models.ParseRole(string(role))
	if err != nil {
		return nil, engine.NewValidationError("%v", err)
	}
	if _, err := s.db.GetUserByName(name); err == nil {
		return nil, engine.NewValidationError("user %q already exists", name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	u, err := s.db.CreateUser(name, role)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", "user", u.ID, "role", u.Role)
	return u, nil
}

// UserByName resolves an identity by name.
func (s *Service) UserByName(name string) (*models.User, error) {
	u, err := s.db.GetUserByName(strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.Error{Code: engine.ErrCodeNotFound, Message: fmt.Sprintf("user %q not found", name)}
	}
	return u, err
}

// User resolves an identity by id.
func (s *Service) User(id int64) (*models.User, error) {
	u, err := s.db.GetUser(id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// Users lists every identity by name.
func (s *Service) Users() ([]models.User, error) {
	return s.db.ListUsers()
}

// Setting and SetSetting expose the key/value store for UI state.
func (s *Service) Setting(key string) (string, error) {
	return s.db.GetSetting(key)
}

func (s *Service) SetSetting(key, value string) error {
	return s.db.SetSetting(key, value)
}
