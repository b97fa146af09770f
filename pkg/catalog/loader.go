package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// Catalog file paths, relative to the catalog directory.
const (
	FilePPR              = "agua/catalogo_ppr.json"
	FileFixtureWeights   = "agua/unidades_consumo.json"
	FileEquivalentLength = "agua/k_equivalentes.json"
	FileVelocityLimits   = "agua/limites_velocidad.json"
	FileProbableFlow     = "agua/caudal_probable.json"
	FileSlopes           = "sanitaria/pendientes_por_dn.json"
	FileAccessSpacing    = "sanitaria/long_max_entre_accesos.json"
	FilePVCGlued         = "sanitaria/catalogo_pvc_pegamento.json"
	FilePVCGasket        = "sanitaria/catalogo_pvc_junta.json"
	FileClimateZones     = "calefaccion/zonas_climaticas_argentina.json"
	FileTransmittances   = "calefaccion/coeficientes_transmitancia.json"
)

// FallbackFunc is notified whenever a catalog file is replaced by its fallback.
type FallbackFunc func(file string)

// Loader reads catalog files from a directory. Successful reads are cached
// per path; failed reads are logged and replaced by a typed fallback so the
// engines never see missing tables.
type Loader struct {
	dir        string
	log        logrus.FieldLogger
	onFallback FallbackFunc

	mu        sync.Mutex
	cache     map[string]any
	fallbacks map[string]error
}

// Option configures a Loader.
type Option func(*Loader)

// WithFallbackHook registers a callback for fallback substitutions.
func WithFallbackHook(fn FallbackFunc) Option {
	return func(l *Loader) { l.onFallback = fn }
}

// NewLoader creates a loader rooted at dir. A nil logger uses the logrus
// standard logger.
func NewLoader(dir string, log logrus.FieldLogger, opts ...Option) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	l := &Loader{
		dir:       dir,
		log:       log,
		cache:     make(map[string]any),
		fallbacks: make(map[string]error),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the catalog directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Water loads the water engine tables.
func (l *Loader) Water() Water {
	return Water{
		PPR:               load(l, FilePPR, PPRCatalog{}),
		EquivalentLengths: load(l, FileEquivalentLength, []EquivalentLength{}),
		Velocity:          load(l, FileVelocityLimits, DefaultVelocityLimits).WithDefaults(),
		FixtureWeights:    load(l, FileFixtureWeights, FixtureWeights{}),
		ProbableFlow:      load(l, FileProbableFlow, DefaultProbableFlow),
	}
}

// Drainage loads the drainage engine tables for a jointing system.
func (l *Loader) Drainage(system spec.PVCSystem) Drainage {
	file := FilePVCGlued
	if system == spec.PVCGasket {
		file = FilePVCGasket
	}
	access := load(l, FileAccessSpacing, DefaultAccessSpacing)
	if access.GeneralM <= 0 {
		access.GeneralM = DefaultAccessSpacing.GeneralM
	}
	return Drainage{
		PVC:    load(l, file, PVCCatalog{}),
		Slopes: load(l, FileSlopes, []SlopeRange{}),
		Access: access,
	}
}

// Heating loads the heating engine tables.
func (l *Loader) Heating() Heating {
	return Heating{
		Zones:          load(l, FileClimateZones, []ClimateZone{}),
		Transmittances: load(l, FileTransmittances, Transmittances{}),
	}
}

// Set bundles the tables of every engine.
type Set struct {
	Water    Water    `json:"water"`
	Drainage Drainage `json:"drainage"`
	Heating  Heating  `json:"heating"`
}

// Set loads the tables of every engine; drainage tables follow the given
// jointing system.
func (l *Loader) Set(system spec.PVCSystem) Set {
	return Set{
		Water:    l.Water(),
		Drainage: l.Drainage(system),
		Heating:  l.Heating(),
	}
}

// Fallbacks returns the files that could not be read, with the reason,
// sorted by file name.
func (l *Loader) Fallbacks() []FallbackRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]FallbackRecord, 0, len(l.fallbacks))
	for file, err := range l.fallbacks {
		out = append(out, FallbackRecord{File: file, Reason: err.Error()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// FallbackRecord describes one catalog file replaced by its fallback.
type FallbackRecord struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func load[T any](l *Loader, rel string, fallback T) T {
	l.mu.Lock()
	if v, ok := l.cache[rel]; ok {
		l.mu.Unlock()
		return v.(T)
	}
	l.mu.Unlock()

	v, err := readTable[T](filepath.Join(l.dir, rel))
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.fallbacks[rel] = err
		l.log.WithFields(logrus.Fields{
			"file":  rel,
			"error": err,
		}).Warn("catalog unavailable, using fallback")
		if l.onFallback != nil {
			l.onFallback(rel)
		}
		return fallback
	}
	delete(l.fallbacks, rel)
	l.cache[rel] = v
	return v
}

// readTable decodes a JSON catalog file, or a YAML file with the same
// basename when the JSON one does not exist.
func readTable[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		yamlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
		yamlData, yerr := os.ReadFile(yamlPath)
		if yerr != nil {
			return v, fmt.Errorf("reading catalog: %w", err)
		}
		if err := yaml.Unmarshal(yamlData, &v); err != nil {
			return v, fmt.Errorf("parsing catalog YAML: %w", err)
		}
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("reading catalog: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parsing catalog JSON: %w", err)
	}
	return v, nil
}
