// Package project groups saved calculations ("partidas") under a client
// project and aggregates their materials.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
)

// Kind identifies the calculation a partida holds. A project keeps at most
// one partida per kind.
type Kind string

const (
	KindWater    Kind = "agua"
	KindDrainage Kind = "sanitaria"
	KindHeating  Kind = "calefaccion"
)

// Kinds lists every calculation kind in display order.
var Kinds = []Kind{KindWater, KindDrainage, KindHeating}

// ParseKind accepts the stored name or its English alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindWater), "water":
		return KindWater, nil
	case string(KindDrainage), "drainage":
		return KindDrainage, nil
	case string(KindHeating), "heating":
		return KindHeating, nil
	}
	return "", fmt.Errorf("unknown calculation kind %q", s)
}

const (
	defaultProjectName = "Untitled project"
	defaultTitle       = "Calculation"
)

// ErrNotFound is returned when a project or partida does not exist.
var ErrNotFound = errors.New("not found")

// Project is a client job with its saved calculations.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client,omitempty"`
	SiteAddress string    `json:"site_address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Parts       []Partida `json:"parts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Partida is one saved calculation: the inputs that produced it, its
// outputs and its materials.
type Partida struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Title     string          `json:"title"`
	Inputs    json.RawMessage `json:"inputs"`
	Outputs   json.RawMessage `json:"outputs"`
	Materials []bom.Line      `json:"materials"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProject holds the fields a user provides when creating a project.
type NewProject struct {
	Name        string `json:"name"`
	Client      string `json:"client,omitempty"`
	SiteAddress string `json:"site_address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Normalize trims every field and names unnamed projects.
func (n NewProject) Normalize() NewProject {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		n.Name = defaultProjectName
	}
	n.Client = strings.TrimSpace(n.Client)
	n.SiteAddress = strings.TrimSpace(n.SiteAddress)
	return n
}

// Calculation is the payload saved into a partida.
type Calculation struct {
	Title     string          `json:"title"`
	Inputs    json.RawMessage `json:"inputs"`
	Outputs   json.RawMessage `json:"outputs"`
	Materials []bom.Line      `json:"materials"`
}

// NewCalculation encodes inputs and outputs as JSON.
func NewCalculation(title string, inputs, outputs any, materials []bom.Line) (Calculation, error) {
	in, err := json.Marshal(inputs)
	if err != nil {
		return Calculation{}, fmt.Errorf("encoding inputs: %w", err)
	}
	out, err := json.Marshal(outputs)
	if err != nil {
		return Calculation{}, fmt.Errorf("encoding outputs: %w", err)
	}
	return Calculation{Title: title, Inputs: in, Outputs: out, Materials: materials}, nil
}

// Normalize fills an empty title and empty payloads.
func (c Calculation) Normalize() Calculation {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if len(c.Inputs) == 0 {
		c.Inputs = json.RawMessage("{}")
	}
	if len(c.Outputs) == 0 {
		c.Outputs = json.RawMessage("{}")
	}
	if c.Materials == nil {
		c.Materials = []bom.Line{}
	}
	return c
}

// NewProjectID returns a fresh project id.
func NewProjectID() string {
	return "prj_" + uuid.NewString()
}

// NewPartidaID returns a fresh partida id.
func NewPartidaID() string {
	return "pt_" + uuid.NewString()
}

// Partida returns the partida of the given kind, or nil.
func (p *Project) Partida(kind Kind) *Partida {
	for i := range p.Parts {
		if p.Parts[i].Kind == kind {
			return &p.Parts[i]
		}
	}
	return nil
}

// Materials merges the materials of every partida into the project bill.
func (p *Project) Materials() []bom.Line {
	lists := make([][]bom.Line, len(p.Parts))
	for i, pt := range p.Parts {
		lists[i] = pt.Materials
	}
	return bom.Merge(lists...)
}

// SaveByKind overwrites the partida of the calculation's kind, or appends
// a new one, and returns it.
func (p *Project) SaveByKind(kind Kind, c Calculation, now time.Time) Partida {
	c = c.Normalize()
	p.UpdatedAt = now
	if pt := p.Partida(kind); pt != nil {
		pt.Title = c.Title
		pt.Inputs = c.Inputs
		pt.Outputs = c.Outputs
		pt.Materials = c.Materials
		pt.UpdatedAt = now
		return *pt
	}
	pt := Partida{
		ID:        NewPartidaID(),
		Kind:      kind,
		Title:     c.Title,
		Inputs:    c.Inputs,
		Outputs:   c.Outputs,
		Materials: c.Materials,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Parts = append(p.Parts, pt)
	return pt
}

// RemovePartida drops a partida by id and reports whether it existed.
func (p *Project) RemovePartida(id string, now time.Time) bool {
	for i := range p.Parts {
		if p.Parts[i].ID == id {
			p.Parts = append(p.Parts[:i], p.Parts[i+1:]...)
			p.UpdatedAt = now
			return true
		}
	}
	return false
}
