package collection

import (
	"context"
	"sync"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/cache"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

// Listener is notified synchronously after every state change.
type Listener func()

// Collection holds the in-memory project list for a single owner on top of a
// record store. It is the only writer of its list: create, update and delete
// apply the store's authoritative returned record to local state before they
// return, so a read issued after a resolved mutation always reflects it.
//
// Failed mutations leave local state untouched. There is no automatic retry;
// callers surface the error and may resubmit.
type Collection struct {
	ownerID string
	store   cache.Store

	mu       sync.Mutex
	projects []domain.Project
	loading  bool
	loadGen  int

	subs    map[int]Listener
	nextSub int
}

func New(ownerID string, store cache.Store) *Collection {
	return &Collection{
		ownerID:  ownerID,
		store:    store,
		projects: []domain.Project{},
		subs:     make(map[int]Listener),
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Listeners run synchronously after each mutation, outside the lock.
func (c *Collection) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Projects returns the current snapshot. Every mutation installs a fresh
// slice, so callers may hold a snapshot and compare identities; they must
// not modify it.
func (c *Collection) Projects() []domain.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projects
}

// Loading reports whether a Refresh is in flight.
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Refresh reloads the full list from the store, newest first. If another
// Refresh starts while this one is in flight, the stale result is discarded
// rather than applied.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()
	c.notify()

	projects, err := c.store.ListByOwner(ctx, c.ownerID)

	c.mu.Lock()
	if gen != c.loadGen {
		// a newer Refresh superseded this one
		c.mu.Unlock()
		return err
	}
	c.loading = false
	if err == nil {
		c.projects = projects
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// Create submits a new project and prepends the stored record, keeping the
// list in created-first order.
func (c *Collection) Create(ctx context.Context, data domain.ProjectFormData) (*domain.Project, error) {
	p, err := c.store.Insert(ctx, c.ownerID, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	next := make([]domain.Project, 0, len(c.projects)+1)
	next = append(next, *p)
	next = append(next, c.projects...)
	c.projects = next
	c.mu.Unlock()
	c.notify()
	return p, nil
}

// Update replaces the project's mutable fields with the store's returned row.
// Updating an id outside the owner's visible set fails with ErrNotFound.
func (c *Collection) Update(ctx context.Context, id string, data domain.ProjectFormData) (*domain.Project, error) {
	p, err := c.store.Update(ctx, c.ownerID, id, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	next := make([]domain.Project, len(c.projects))
	copy(next, c.projects)
	for i := range next {
		if next[i].ID == p.ID {
			next[i] = *p
			break
		}
	}
	c.projects = next
	c.mu.Unlock()
	c.notify()
	return p, nil
}

// Delete removes the project. Deleting an id that is already gone reports
// ErrNotFound to the caller; the view is expected to have confirmed the
// destructive action beforehand.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if err := c.store.SoftDelete(ctx, c.ownerID, id); err != nil {
		return err
	}

	c.mu.Lock()
	next := make([]domain.Project, 0, len(c.projects))
	for _, p := range c.projects {
		if p.ID != id {
			next = append(next, p)
		}
	}
	c.projects = next
	c.mu.Unlock()
	c.notify()
	return nil
}

// Get returns the project with the given id from the current snapshot.
func (c *Collection) Get(id string) (*domain.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			p := c.projects[i]
			return &p, true
		}
	}
	return nil, false
}

func (c *Collection) notify() {
	c.mu.Lock()
	listeners := make([]Listener, 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
