package permissions

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed roles.toml
var defaultRoles []byte

const RoleSuperAdmin = "super_admin"

type Preset struct {
	Name        string
	Description string
	All         bool
	Permissions Set
}

type presetFile struct {
	Description string              `toml:"description"`
	All         bool                `toml:"all"`
	Permissions map[string][]string `toml:"permissions"`
}

type rolesFile struct {
	Roles map[string]presetFile `toml:"roles"`
}

// Registry holds the role presets.
type Registry struct {
	mu    sync.RWMutex
	roles map[string]*Preset
}

func NewRegistry() *Registry {
	return &Registry{roles: make(map[string]*Preset)}
}

// DefaultRegistry returns the presets compiled into the binary.
func DefaultRegistry() (*Registry, error) {
	return Decode(defaultRoles)
}

// LoadFromFile reads presets from a TOML file.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles config: %w", err)
	}
	return Decode(data)
}

// Load uses path when set and the embedded presets otherwise.
func Load(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	return LoadFromFile(path)
}

func Decode(data []byte) (*Registry, error) {
	var file rolesFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse roles config: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("roles config defines no roles")
	}

	registry := NewRegistry()
	for name, p := range file.Roles {
		registry.Register(&Preset{
			Name:        name,
			Description: p.Description,
			All:         p.All,
			Permissions: FromMap(p.Permissions),
		})
	}
	return registry, nil
}

func (r *Registry) Register(p *Preset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[p.Name] = p
}

func (r *Registry) Get(role string) *Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[role]
}

func (r *Registry) Exists(role string) bool {
	return r.Get(role) != nil
}

// Names returns the role names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the preset permissions of a role.
func (r *Registry) Defaults(role string) Set {
	p := r.Get(role)
	if p == nil {
		return Set{}
	}
	if p.All {
		return All()
	}
	return p.Permissions
}

// Effective resolves what an admin may do: all-access roles get everything,
// otherwise the stored set applies, falling back to the role preset when the
// stored set is empty.
func (r *Registry) Effective(role string, stored Set) Set {
	p := r.Get(role)
	if p == nil {
		return stored
	}
	if p.All {
		return All()
	}
	if stored.Empty() {
		return p.Permissions
	}
	return stored
}
