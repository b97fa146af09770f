package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/home265/bob-obras-sanitarias/internal/calc"
	"github.com/home265/bob-obras-sanitarias/internal/config"
	"github.com/home265/bob-obras-sanitarias/internal/logging"
	"github.com/home265/bob-obras-sanitarias/internal/metrics"
	"github.com/home265/bob-obras-sanitarias/internal/server"
	"github.com/home265/bob-obras-sanitarias/internal/store"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/export"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	closer  io.Closer
	metrics *metrics.Registry
	runner  *calc.Runner
}

func setup(opts *globalOptions) (*app, error) {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.catalogDir != "" {
		cfg.Catalogs.Dir = opts.catalogDir
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.WithField("path", path).Debug("configuration loaded")
	}

	reg := metrics.DefaultRegistry()
	loader := catalog.NewLoader(cfg.Catalogs.Dir, log, catalog.WithFallbackHook(reg.RecordCatalogFallback))

	return &app{
		cfg:     cfg,
		log:     log,
		closer:  closer,
		metrics: reg,
		runner:  calc.NewRunner(cfg, loader, reg, log),
	}, nil
}

func (a *app) Close() {
	a.closer.Close()
}

func (a *app) openStore(ctx context.Context) (*store.DB, *store.ProjectRepository, error) {
	db, err := store.Open(ctx, a.cfg.Database.Path, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening project store: %w", err)
	}
	return db, store.NewProjectRepository(db), nil
}

// loadInstallation accepts a project directory or a spec file.
func loadInstallation(path string) (*spec.InstallationSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading installation: %w", err)
	}
	var s *spec.InstallationSpec
	if info.IsDir() {
		s, err = spec.LoadProject(path)
	} else {
		s, err = spec.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading installation: %w", err)
	}
	return s, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCalc(opts *globalOptions, name, path string, asJSON bool) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadInstallation(path)
	if err != nil {
		return err
	}
	if report := validation.ValidateSchema(s); !report.Valid {
		printValidationReport(report)
		return errInvalid
	}

	kind, err := project.ParseKind(name)
	if err != nil {
		return err
	}
	var res any
	switch kind {
	case project.KindWater:
		if s.Water == nil {
			return fmt.Errorf("%s: %w", name, calc.ErrMissingSection)
		}
		r := a.runner.Water(*s.Water)
		res = r
		if !asJSON {
			printSection("Water network", summary{r.Rows, r.Recommendations, r.Warnings, r.Materials, r.Incomplete})
			printWaterSegments(r)
		}
	case project.KindDrainage:
		if s.Drainage == nil {
			return fmt.Errorf("%s: %w", name, calc.ErrMissingSection)
		}
		r := a.runner.Drainage(*s.Drainage)
		res = r
		if !asJSON {
			printSection("Drainage network", summary{r.Rows, r.Recommendations, r.Warnings, r.Materials, r.Incomplete})
			printDrainageRuns(r)
		}
	case project.KindHeating:
		if s.Heating == nil {
			return fmt.Errorf("%s: %w", name, calc.ErrMissingSection)
		}
		r := a.runner.Heating(*s.Heating)
		res = r
		if !asJSON {
			printSection("Heating", summary{r.Rows, r.Recommendations, r.Warnings, r.Materials, r.Incomplete})
			printHeatingRooms(r)
		}
	}
	if asJSON {
		return printJSON(res)
	}
	return nil
}

func runValidate(opts *globalOptions, path string) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadInstallation(path)
	if err != nil {
		return err
	}
	report := a.runner.Validate(s)
	printValidationReport(report)
	if !report.Valid {
		return errInvalid
	}
	return nil
}

func runServe(ctx context.Context, opts *globalOptions, port int) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	db, repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}
	a.log.WithFields(logrus.Fields{
		"catalogs": a.cfg.Catalogs.Dir,
		"database": db.Path(),
	}).Info("serving installations API")

	return server.New(a.runner, repo, a.metrics, a.log, port).Start(ctx)
}

type projectFields struct {
	name    string
	client  string
	address string
	notes   string
}

// withStore runs fn against an opened project repository.
func withStore(ctx context.Context, opts *globalOptions, fn func(a *app, repo project.Store) error) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	db, repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(a, repo)
}

func runProjectCreate(ctx context.Context, opts *globalOptions, f projectFields) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		p, err := repo.Create(ctx, project.NewProject{
			Name:        f.name,
			Client:      f.client,
			SiteAddress: f.address,
			Notes:       f.notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s)\n", successStyle.Render("created"), p.ID, p.Name)
		return nil
	})
}

func runProjectList(ctx context.Context, opts *globalOptions) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		list, err := repo.List(ctx)
		if err != nil {
			return err
		}
		printProjectList(list)
		return nil
	})
}

func runProjectShow(ctx context.Context, opts *globalOptions, id string) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		printProject(p)
		return nil
	})
}

func runProjectSave(ctx context.Context, opts *globalOptions, id, kindName, path, title string) error {
	kind, err := project.ParseKind(kindName)
	if err != nil {
		return err
	}
	s, err := loadInstallation(path)
	if err != nil {
		return err
	}
	return withStore(ctx, opts, func(a *app, repo project.Store) error {
		if report := a.runner.Validate(s); !report.Valid {
			printValidationReport(report)
			return errInvalid
		}
		c, err := a.runner.Calculate(kind, s, title)
		if err != nil {
			return err
		}
		pt, err := repo.SaveByKind(ctx, id, kind, c)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s (%d material lines)\n", successStyle.Render("saved"), pt.Kind, pt.ID, len(pt.Materials))
		return nil
	})
}

func runProjectExport(ctx context.Context, opts *globalOptions, id, formatName, out string) error {
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if f == export.FormatXLSX && out == "" {
		return fmt.Errorf("xlsx export needs --out")
	}
	return withStore(ctx, opts, func(a *app, repo project.Store) error {
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if out == "" {
			return export.Write(os.Stdout, f, p)
		}
		if filepath.Ext(out) == "" {
			out = filepath.Join(out, export.Filename(p, f))
		}
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		if err := export.Write(file, f, p); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"project": p.ID, "format": f, "path": out}).Info("project exported")
		return nil
	})
}

func runProjectRename(ctx context.Context, opts *globalOptions, id, name string) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		return repo.Rename(ctx, id, name)
	})
}

func runProjectRemovePartida(ctx context.Context, opts *globalOptions, id, partidaID string) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		return repo.RemovePartida(ctx, id, partidaID)
	})
}

func runProjectDelete(ctx context.Context, opts *globalOptions, id string) error {
	return withStore(ctx, opts, func(_ *app, repo project.Store) error {
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", successStyle.Render("deleted"), id)
		return nil
	})
}

func runCatalogs(opts *globalOptions, dir string) error {
	if dir != "" {
		opts.catalogDir = dir
	}
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	loader := a.runner.Catalogs()
	glued := loader.Set(spec.PVCGlued)
	gasket := loader.Drainage(spec.PVCGasket)
	printCatalogs(loader.Dir(), glued, gasket, loader.Fallbacks())
	return nil
}

func runConfigPath(opts *globalOptions) error {
	fmt.Println(config.ConfigPath(opts.configPath))
	return nil
}

func runConfigInit(opts *globalOptions, force bool) error {
	path := config.ConfigPath(opts.configPath)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", successStyle.Render("wrote"), path)
	return nil
}
