package project

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a Store kept in memory. Projects are deep-copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*Project
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*Project),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(_ context.Context, in NewProject) (*Project, error) {
	in = in.Normalize()
	now := m.now()
	p := &Project{
		ID:          NewProjectID(),
		Name:        in.Name,
		Client:      in.Client,
		SiteAddress: in.SiteAddress,
		Notes:       in.Notes,
		Parts:       []Partida{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return clone(p), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return clone(p), nil
}

func (m *MemoryStore) List(_ context.Context) ([]Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, *clone(p))
	}
	SortByUpdated(out)
	return out, nil
}

func (m *MemoryStore) Rename(_ context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	p.Name = name
	p.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(m.projects, id)
	return nil
}

func (m *MemoryStore) SaveByKind(_ context.Context, projectID string, kind Kind, c Calculation) (*Partida, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	pt := p.SaveByKind(kind, cloneCalculation(c), m.now())
	return &pt, nil
}

func (m *MemoryStore) RemovePartida(_ context.Context, projectID, partidaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if !p.RemovePartida(partidaID, m.now()) {
		return fmt.Errorf("partida %s: %w", partidaID, ErrNotFound)
	}
	return nil
}

// SortByUpdated orders projects most recently updated first, then by id.
func SortByUpdated(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].UpdatedAt.Equal(projects[j].UpdatedAt) {
			return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
}

func clone(p *Project) *Project {
	out := *p
	out.Parts = make([]Partida, len(p.Parts))
	for i, pt := range p.Parts {
		c := cloneCalculation(Calculation{Inputs: pt.Inputs, Outputs: pt.Outputs, Materials: pt.Materials})
		pt.Inputs, pt.Outputs, pt.Materials = c.Inputs, c.Outputs, c.Materials
		out.Parts[i] = pt
	}
	return &out
}

func cloneCalculation(c Calculation) Calculation {
	c.Inputs = append(json.RawMessage(nil), c.Inputs...)
	c.Outputs = append(json.RawMessage(nil), c.Outputs...)
	if c.Materials != nil {
		c.Materials = append(c.Materials[:0:0], c.Materials...)
	}
	return c
}
