package project

import "context"

// Store persists projects and their partidas.
type Store interface {
	Create(ctx context.Context, in NewProject) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	// List returns every project, most recently updated first.
	List(ctx context.Context) ([]Project, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	// SaveByKind creates the partida of that kind or overwrites the
	// existing one.
	SaveByKind(ctx context.Context, projectID string, kind Kind, c Calculation) (*Partida, error)
	RemovePartida(ctx context.Context, projectID, partidaID string) error
}
