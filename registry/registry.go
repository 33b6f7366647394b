package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// Manifest is the optional YAML file listing scripts to run. Manifest
// entries run before any scripts supplied as positional arguments.
type Manifest struct {
	Suite   string             `yaml:"suite,omitempty"`
	Scripts []types.ScriptSpec `yaml:"scripts"`
}

// Registry manages script sources and their report labels
type Registry struct {
	config    Config
	suiteName string
	scripts   []types.ScriptSpec
	mu        sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log          log.Logger
	ManifestPath string   // Optional YAML manifest; empty means positional args only
	Args         []string // Positional script paths, appended after manifest entries
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config: cfg,
	}

	if err := r.loadScripts(); err != nil {
		return nil, fmt.Errorf("failed to load scripts: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(scripts)", len(r.scripts))

	return r, nil
}

// loadScripts collects manifest entries and positional arguments into one
// ordered list. Report order is load order.
func (r *Registry) loadScripts() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var specs []types.ScriptSpec

	if r.config.ManifestPath != "" {
		manifest, err := loadManifest(r.config.ManifestPath)
		if err != nil {
			return fmt.Errorf("failed to load manifest: %w", err)
		}
		r.suiteName = manifest.Suite
		specs = append(specs, manifest.Scripts...)
	}

	for _, path := range r.config.Args {
		specs = append(specs, types.ScriptSpec{Path: path})
	}

	for i := range specs {
		if err := applyDefaults(&specs[i]); err != nil {
			return err
		}
	}

	r.scripts = specs

	return nil
}

// applyDefaults fills in the optional labels. Name falls back to the path as
// supplied, Classname to the absolute path. A missing path never fails here;
// the executor reports it as an errored case so the rest of the run proceeds.
func applyDefaults(spec *types.ScriptSpec) error {
	if spec.Path == "" {
		return fmt.Errorf("script entry is missing a path")
	}
	if spec.Name == "" {
		spec.Name = spec.Path
	}
	if spec.Classname == "" {
		abs, err := filepath.Abs(spec.Path)
		if err != nil {
			return fmt.Errorf("resolving path %q: %w", spec.Path, err)
		}
		spec.Classname = abs
	}
	return nil
}

// GetScripts returns all registered scripts in report order
func (r *Registry) GetScripts() []types.ScriptSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scripts
}

// SuiteName returns the suite name from the manifest, if one was set
func (r *Registry) SuiteName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suiteName
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}

// loadManifest loads a script manifest from a file
func loadManifest(path string) (*Manifest, error) {
	log.Debug("Reading manifest file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest file: %w", err)
	}

	return &m, nil
}
