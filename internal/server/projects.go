package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/export"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
)

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordProjectOperation(op, err)
	}
	if errors.Is(err, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.log.WithError(err).WithField("operation", op).Error("project store failed")
	writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) stored(op string) {
	if s.metrics != nil {
		s.metrics.RecordProjectOperation(op, nil)
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, "list", err)
		return
	}
	s.stored("list")
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in project.NewProject
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.storeError(w, "create", err)
		return
	}
	s.stored("create")
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "get", err)
		return
	}
	s.stored("get")
	writeJSON(w, http.StatusOK, p)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	var in renameRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	id := r.PathValue("id")
	if err := s.store.Rename(r.Context(), id, in.Name); err != nil {
		s.storeError(w, "rename", err)
		return
	}
	s.stored("rename")
	s.handleGetProject(w, r)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, "delete", err)
		return
	}
	s.stored("delete")
	w.WriteHeader(http.StatusNoContent)
}

type savePartidaRequest struct {
	Title string          `json:"title"`
	Spec  json.RawMessage `json:"spec"`
}

// handleSavePartida computes the posted section and stores it as the
// project's partida of that kind, replacing any previous one.
func (s *Server) handleSavePartida(w http.ResponseWriter, r *http.Request) {
	kind, err := project.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var in savePartidaRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	inst, err := decodeSection(kind, in.Spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding %s spec: %w", kind, err))
		return
	}
	if report := validation.ValidateSchema(inst); !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	c, err := s.runner.Calculate(kind, inst, in.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pt, err := s.store.SaveByKind(r.Context(), r.PathValue("id"), kind, c)
	if err != nil {
		s.storeError(w, "save_partida", err)
		return
	}
	s.stored("save_partida")
	writeJSON(w, http.StatusOK, pt)
}

func (s *Server) handleRemovePartida(w http.ResponseWriter, r *http.Request) {
	err := s.store.RemovePartida(r.Context(), r.PathValue("id"), r.PathValue("partida"))
	if err != nil {
		s.storeError(w, "remove_partida", err)
		return
	}
	s.stored("remove_partida")
	w.WriteHeader(http.StatusNoContent)
}

type materialsResponse struct {
	ProjectID string     `json:"project_id"`
	Materials []bom.Line `json:"materials"`
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "get", err)
		return
	}
	s.stored("get")
	writeJSON(w, http.StatusOK, materialsResponse{ProjectID: p.ID, Materials: p.Materials()})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, export.FormatCSV)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.export(w, r, f)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, f export.Format) {
	p, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "get", err)
		return
	}
	s.stored("get")
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(p, f)))
	if err := export.Write(w, f, p); err != nil {
		s.log.WithError(err).WithField("project", p.ID).Error("export failed")
	}
}
