package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
)

// apiSpecVersion stamps sections posted on their own.
const apiSpecVersion = "api"

type catalogsResponse struct {
	Dir       string                   `json:"dir"`
	Catalogs  catalog.Set              `json:"catalogs"`
	Fallbacks []catalog.FallbackRecord `json:"fallbacks"`
}

func (s *Server) handleCatalogs(w http.ResponseWriter, r *http.Request) {
	system := spec.PVCSystem(r.URL.Query().Get("system"))
	if system == "" {
		system = spec.PVCGlued
	}
	if system != spec.PVCGlued && system != spec.PVCGasket {
		writeError(w, http.StatusBadRequest, errors.New("system must be pegamento or junta"))
		return
	}
	loader := s.runner.Catalogs()
	set := loader.Set(system)
	writeJSON(w, http.StatusOK, catalogsResponse{
		Dir:       loader.Dir(),
		Catalogs:  set,
		Fallbacks: loader.Fallbacks(),
	})
}

// schemaReport validates a lone section wrapped in an installation. It
// writes a 422 response and returns false when the section is invalid.
func schemaReport(w http.ResponseWriter, s *spec.InstallationSpec) bool {
	s.SpecVersion = apiSpecVersion
	report := validation.ValidateSchema(s)
	if !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return false
	}
	return true
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	var in spec.WaterSpec
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !schemaReport(w, &spec.InstallationSpec{Water: &in}) {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Water(in))
}

func (s *Server) handleDrainage(w http.ResponseWriter, r *http.Request) {
	var in spec.DrainageSpec
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !schemaReport(w, &spec.InstallationSpec{Drainage: &in}) {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Drainage(in))
}

func (s *Server) handleHeating(w http.ResponseWriter, r *http.Request) {
	var in spec.HeatingSpec
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !schemaReport(w, &spec.InstallationSpec{Heating: &in}) {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Heating(in))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var in spec.InstallationSpec
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Validate(&in))
}

// decodeSection parses raw JSON into the installation section of kind.
func decodeSection(kind project.Kind, raw json.RawMessage) (*spec.InstallationSpec, error) {
	inst := &spec.InstallationSpec{SpecVersion: apiSpecVersion}
	var target any
	switch kind {
	case project.KindWater:
		inst.Water = &spec.WaterSpec{}
		target = inst.Water
	case project.KindDrainage:
		inst.Drainage = &spec.DrainageSpec{}
		target = inst.Drainage
	case project.KindHeating:
		inst.Heating = &spec.HeatingSpec{}
		target = inst.Heating
	default:
		return nil, fmt.Errorf("unknown calculation kind %q", kind)
	}
	if len(raw) == 0 {
		return nil, errors.New("spec is required")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return inst, nil
}
