// Package session holds the authenticated principal and decides, per
// navigation, whether the principal may view a screen.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/store"
	"github.com/certapply/certapply/internal/dbx"
)

// Keys of the durable session record.
const (
	keyID          = "id"
	keyDisplayName = "username"
	keyRole        = "role"
	keyToken       = "token"
)

// Store is the single source of truth for "who is acting". It is shared
// mutable state: only Set and Clear mutate it, any component may read it,
// and readers must tolerate the value changing between two reads (a logout
// mid-flow reads back as no principal).
type Store struct {
	mu      sync.RWMutex
	db      *sql.DB
	current *models.Principal
}

// NewStore builds a Store backed by db and loads any persisted session, so
// the principal survives a process restart.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	repo := store.NewSQLiteRepository(s.db)

	rawID, err := repo.Get(ctx, keyID)
	if err != nil {
		return err
	}
	if rawID == nil {
		return nil
	}

	id, err := strconv.ParseInt(string(rawID), 10, 64)
	if err != nil {
		return fmt.Errorf("corrupt session record: %w", err)
	}

	name, err := repo.Get(ctx, keyDisplayName)
	if err != nil {
		return err
	}
	rawRole, err := repo.Get(ctx, keyRole)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(string(rawRole))
	if err != nil {
		return fmt.Errorf("corrupt session record: %w", err)
	}
	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return err
	}

	s.current = &models.Principal{
		ID:          id,
		DisplayName: string(name),
		Role:        role,
		Credential:  string(token),
	}
	return nil
}

// Set replaces the current principal and persists it. A Principal's role is
// immutable: changing identity always goes through replacement here.
func (s *Store) Set(ctx context.Context, p models.Principal) error {
	if !p.Role.Valid() {
		return fmt.Errorf("refusing to store principal with role %q", p.Role)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := store.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyID, []byte(strconv.FormatInt(p.ID, 10))); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyDisplayName, []byte(p.DisplayName)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyRole, []byte(p.Role)); err != nil {
			return err
		}
		return repo.Set(ctx, keyToken, []byte(p.Credential))
	})
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	cp := p
	s.current = &cp
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the stored principal, or nil when nobody is
// logged in. Callers must re-read at each decision point rather than cache
// the value across suspension points.
func (s *Store) Current() *models.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token implements api.TokenSource: it returns the stored credential or ""
// when no principal is present. Absence is not an error here; authorization
// is the guard's job.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Credential
}

// Clear removes the principal from memory and durable storage (logout, or a
// credential rejection from any remote call).
func (s *Store) Clear(ctx context.Context) error {
	repo := store.NewSQLiteRepository(s.db)
	if err := repo.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}
