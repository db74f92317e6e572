// Package testutil provides in-memory repositories for service and handler tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

// NoTx runs the unit of work without a transaction.
type NoTx struct{}

func (NoTx) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func window[T any](rows []T, page transfer.Page) []T {
	if page.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[page.Offset:]
	if page.Limit > 0 && page.Limit < len(rows) {
		rows = rows[:page.Limit]
	}
	return rows
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

type Users struct {
	mu   sync.Mutex
	rows map[int64]*models.User
	next int64
}

func NewUsers(users ...*models.User) *Users {
	r := &Users{rows: make(map[int64]*models.User)}
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *Users) put(u *models.User) int64 {
	if u.ID == 0 {
		r.next++
		u.ID = r.next
	} else if u.ID > r.next {
		r.next = u.ID
	}
	r.rows[u.ID] = clone(u)
	return u.ID
}

func (r *Users) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	return clone(u), true, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, email) {
			return clone(u), true, nil
		}
	}
	return nil, false, nil
}

func (r *Users) List(_ context.Context, page transfer.Page) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for id := int64(1); id <= r.next; id++ {
		if u, ok := r.rows[id]; ok {
			out = append(out, clone(u))
		}
	}
	return window(out, page), nil
}

func (r *Users) Create(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, repository.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	return r.put(user), nil
}

func (r *Users) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.ID != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.rows[user.ID]; ok {
		r.rows[user.ID] = clone(user)
	}
	return nil
}

func (r *Users) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

// Permissions counts ListByRole calls so tests can observe caching.
type Permissions struct {
	mu    sync.Mutex
	rows  []*models.RolePermission
	Reads int
}

func NewPermissions(rows ...*models.RolePermission) *Permissions {
	return &Permissions{rows: rows}
}

func (r *Permissions) ListByRole(_ context.Context, role string) ([]*models.RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	out := []*models.RolePermission{}
	for _, rp := range r.rows {
		if rp.Role == role {
			out = append(out, clone(rp))
		}
	}
	return out, nil
}

func (r *Permissions) ListAll(_ context.Context) ([]*models.RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RolePermission, 0, len(r.rows))
	for _, rp := range r.rows {
		out = append(out, clone(rp))
	}
	return out, nil
}

func (r *Permissions) Upsert(_ context.Context, rp *models.RolePermission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rows {
		if existing.Role == rp.Role && existing.Resource == rp.Resource {
			r.rows[i] = clone(rp)
			return nil
		}
	}
	r.rows = append(r.rows, clone(rp))
	return nil
}

func (r *Permissions) Remove(_ context.Context, role string, resource models.Resource) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rows {
		if existing.Role == role && existing.Resource == resource {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type ActivityLog struct {
	mu      sync.Mutex
	Entries []*models.ActivityLog
}

func (r *ActivityLog) Create(_ context.Context, entry *models.ActivityLog) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = int64(len(r.Entries) + 1)
	entry.CreatedAt = time.Now()
	r.Entries = append(r.Entries, clone(entry))
	return entry.ID, nil
}

func (r *ActivityLog) List(_ context.Context, filter repository.ActivityFilter, page transfer.Page) ([]*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ActivityLog
	for i := len(r.Entries) - 1; i >= 0; i-- {
		e := r.Entries[i]
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		if filter.ResourceType != "" && e.ResourceType != filter.ResourceType {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, clone(e))
	}
	return window(out, page), nil
}

// Actions returns the logged actions in order.
func (r *ActivityLog) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Action
	}
	return out
}
