package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type Families struct {
	mu   sync.Mutex
	rows map[int64]*models.Family
	next int64
	// Members is unlinked on Remove, mirroring ON DELETE SET NULL.
	Members *Followers
}

func NewFamilies(families ...*models.Family) *Families {
	r := &Families{rows: make(map[int64]*models.Family)}
	for _, f := range families {
		r.next++
		f.ID = r.next
		r.rows[f.ID] = clone(f)
	}
	return r
}

func (r *Families) Create(_ context.Context, f *models.Family) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	f.ID = r.next
	f.CreatedAt = time.Now()
	r.rows[f.ID] = clone(f)
	return f.ID, nil
}

func (r *Families) GetByID(_ context.Context, id int64) (*models.Family, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clone(f), nil
}

func (r *Families) List(_ context.Context, page transfer.Page) ([]*models.Family, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Family, 0, len(r.rows))
	for _, f := range r.rows {
		out = append(out, clone(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, page), nil
}

func (r *Families) Update(_ context.Context, f *models.Family) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[f.ID]; !ok {
		return false, nil
	}
	r.rows[f.ID] = clone(f)
	return true, nil
}

func (r *Families) Remove(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	r.mu.Unlock()

	if ok && r.Members != nil {
		r.Members.unlinkFamily(id)
	}
	return ok, nil
}

type Followers struct {
	mu   sync.Mutex
	rows map[int64]*models.Follower
	next int64
}

func NewFollowers(followers ...*models.Follower) *Followers {
	r := &Followers{rows: make(map[int64]*models.Follower)}
	for _, f := range followers {
		r.next++
		f.ID = r.next
		r.rows[f.ID] = clone(f)
	}
	return r
}

func (r *Followers) Create(_ context.Context, f *models.Follower) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	f.ID = r.next
	f.CreatedAt = time.Now()
	r.rows[f.ID] = clone(f)
	return f.ID, nil
}

func (r *Followers) GetByID(_ context.Context, id int64) (*models.Follower, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clone(f), nil
}

func (r *Followers) List(_ context.Context, filter repository.FollowerFilter, page transfer.Page) ([]*models.Follower, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var out []*models.Follower
	for id := int64(1); id <= r.next; id++ {
		f, ok := r.rows[id]
		if !ok {
			continue
		}
		if filter.FamilyID != nil && (f.FamilyID == nil || *f.FamilyID != *filter.FamilyID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.FirstName+" "+f.LastName+" "+f.Email), search) {
			continue
		}
		out = append(out, clone(f))
	}
	return window(out, page), nil
}

func (r *Followers) Update(_ context.Context, f *models.Follower) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[f.ID]; !ok {
		return false, nil
	}
	r.rows[f.ID] = clone(f)
	return true, nil
}

func (r *Followers) Remove(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *Followers) unlinkFamily(familyID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.rows {
		if f.FamilyID != nil && *f.FamilyID == familyID {
			f.FamilyID = nil
		}
	}
}

type PrayerPoints struct {
	mu   sync.Mutex
	rows map[int64]*models.PrayerPoint
	next int64
}

func NewPrayerPoints() *PrayerPoints {
	return &PrayerPoints{rows: make(map[int64]*models.PrayerPoint)}
}

func (r *PrayerPoints) Create(_ context.Context, p *models.PrayerPoint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	p.ID = r.next
	p.CreatedAt = time.Now()
	r.rows[p.ID] = clone(p)
	return p.ID, nil
}

func (r *PrayerPoints) GetByID(_ context.Context, id int64) (*models.PrayerPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}

// ListByFollower returns the newest first.
func (r *PrayerPoints) ListByFollower(_ context.Context, followerID int64, status string) ([]*models.PrayerPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.PrayerPoint{}
	for id := r.next; id >= 1; id-- {
		p, ok := r.rows[id]
		if !ok || p.FollowerID != followerID || (status != "" && p.Status != status) {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

// Update leaves status and answered_at alone; SetStatus owns them.
func (r *PrayerPoints) Update(_ context.Context, p *models.PrayerPoint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[p.ID]
	if !ok {
		return false, nil
	}
	cur.Title = p.Title
	cur.Description = p.Description
	cur.UpdatedAt = time.Now()
	return true, nil
}

func (r *PrayerPoints) SetStatus(_ context.Context, id int64, status string, answeredAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	p.Status = status
	p.AnsweredAt = answeredAt
	p.UpdatedAt = time.Now()
	return true, nil
}

func (r *PrayerPoints) Remove(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}
