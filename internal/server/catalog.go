package server

import (
	"context"
	"sync"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/validation"
)

// ReloadFunc produces a fresh project set
type ReloadFunc func(ctx context.Context) ([]models.Project, validation.Result, error)

// Catalog holds the projects currently served
type Catalog struct {
	mu         sync.RWMutex
	projects   []models.Project
	validation validation.Result
	loadedAt   time.Time
	reload     ReloadFunc
}

// NewCatalog creates a catalog that refreshes itself with reload
func NewCatalog(reload ReloadFunc) *Catalog {
	return &Catalog{reload: reload, validation: validation.Result{IsValid: true}}
}

// Reload replaces the catalog contents. On failure the previous contents
// are kept.
func (c *Catalog) Reload(ctx context.Context) error {
	projects, result, err := c.reload(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = projects
	c.validation = result
	c.loadedAt = time.Now()
	return nil
}

// Projects returns the served projects. Callers must not modify the slice.
func (c *Catalog) Projects() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projects
}

// Find looks up a project by id. When sources repeat an id the first copy
// wins; the repeat is reported in Validation.
func (c *Catalog) Find(id string) (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Validation returns the result recorded by the last reload
func (c *Catalog) Validation() (validation.Result, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validation, c.loadedAt
}
