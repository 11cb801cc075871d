package project

import (
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/convtest/internal/compare"
	"github.com/AndreyAkinshin/convtest/internal/config"
	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/errors"
	"github.com/AndreyAkinshin/convtest/internal/samples"
)

// Project represents a loaded convtest project.
type Project struct {
	Root       string
	ConfigPath string
	Config     *config.Config
	Graph      *converter.Graph
	Warnings   []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to locate project")
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	configPath, ok := configIn(root)
	if !ok {
		return nil, errors.WrapConfig(ErrNoProjectRoot, "failed to load configuration")
	}
	return LoadConfigFile(root, configPath)
}

// LoadConfigFile loads a project whose configuration lives at configPath.
// Relative directories in the configuration resolve against root.
func LoadConfigFile(root, configPath string) (*Project, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve project root")
	}

	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to load configuration")
	}

	g, buildWarnings, err := converter.Build(cfg)
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to build converter graph")
	}
	warnings = append(warnings, buildWarnings...)

	p := &Project{
		Root:       root,
		ConfigPath: configPath,
		Config:     cfg,
		Graph:      g,
	}

	sampleWarnings, err := checkSamples(p.SamplesDir(), cfg)
	if err != nil {
		return nil, errors.WrapEnvironment(err, "failed to inspect samples")
	}
	p.Warnings = append(warnings, sampleWarnings...)
	return p, nil
}

// resolve makes a configured path absolute relative to the project root.
func (p *Project) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// SamplesDir returns the absolute samples directory.
func (p *Project) SamplesDir() string {
	return p.resolve(p.Config.Samples.Directory)
}

// Provider returns the sample provider for the project.
func (p *Project) Provider() *samples.DirProvider {
	return samples.NewDirProvider(p.SamplesDir(), p.Config.Samples.Pattern)
}

// Executor returns the command executor for the project.
func (p *Project) Executor() *converter.CommandExecutor {
	return &converter.CommandExecutor{
		RootDir: p.Root,
		WorkDir: p.resolve(p.Config.Execution.WorkDir),
		Timeout: p.Config.Execution.TimeoutDuration(),
	}
}

// CompareOptions returns the comparison settings for the project.
func (p *Project) CompareOptions() compare.Options {
	return compare.OptionsFromConfig(p.Config.Comparison)
}

// ReportPath returns the configured JSON report path, or "" when none is set.
func (p *Project) ReportPath() string {
	if p.Config.Reports == nil {
		return ""
	}
	return p.resolve(p.Config.Reports.JSON)
}

// String describes the project for logs.
func (p *Project) String() string {
	return fmt.Sprintf("%s (%s)", p.Config.Project.Name, p.Root)
}
