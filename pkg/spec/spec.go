package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the installation file looked up inside a project directory.
const ProjectFileName = "instalacion.yaml"

// Load reads an installation spec from a YAML file.
func Load(path string) (*InstallationSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	var spec InstallationSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}

	return &spec, nil
}

// LoadProject loads an installation spec from a project directory.
// It looks for instalacion.yaml in the given directory.
func LoadProject(projectDir string) (*InstallationSpec, error) {
	return Load(filepath.Join(projectDir, ProjectFileName))
}
