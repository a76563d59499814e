// internal/catalog/catalog.go
//
// The catalog is external read-only input: the lists of valid contact names
// and service names a release note may reference. It is loaded once when a
// session starts and treated as immutable until the session ends. The
// primary format is TOML (catalog.toml); YAML is accepted for teams that
// keep their ops config in YAML already.

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/renolabs/reno/internal/note"
)

//go:embed sample_catalog.toml
var sampleCatalog string

// DefaultFile is the catalog filename reno looks for in the working
// directory when no --catalog flag is given.
const DefaultFile = "catalog.toml"

// Catalog is the immutable set of valid contact and service names for one
// form session.
type Catalog struct {
	Contacts []string
	Services []string
}

// fileCatalog mirrors the on-disk shape: named lists under [contacts] and
// [services] tables.
type fileCatalog struct {
	Contacts struct {
		Names []string `toml:"names" yaml:"names"`
	} `toml:"contacts" yaml:"contacts"`
	Services struct {
		Names []string `toml:"names" yaml:"names"`
	} `toml:"services" yaml:"services"`
}

// Load reads and validates a catalog file. The format is picked by
// extension: .toml, or .yaml/.yml.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var parsed fileCatalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("catalog: %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	c := &Catalog{
		Contacts: parsed.Contacts.Names,
		Services: parsed.Services.Names,
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Validator builds the session validator over this catalog's sets.
func (c *Catalog) Validator() *note.Validator {
	return note.NewValidator(c.Contacts, c.Services)
}

// validate enforces the catalog contract: entries are non-empty strings with
// no surrounding whitespace drift and no duplicates.
func (c *Catalog) validate() error {
	if err := validateNames("contacts", c.Contacts); err != nil {
		return err
	}
	return validateNames("services", c.Services)
}

func validateNames(section string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s.names[%d] is empty", section, i)
		}
		if name != strings.TrimSpace(name) {
			return fmt.Errorf("%s.names[%d] %q has surrounding whitespace", section, i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%s.names has duplicate entry %q", section, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// WriteSample writes the embedded sample catalog to path, refusing to
// clobber an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("catalog: %s already exists", path)
	}
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		return fmt.Errorf("catalog: write sample: %w", err)
	}
	return nil
}
