package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// File is the YAML catalog document shape.
type File struct {
	Resources []resource.Descriptor `yaml:"resources"`
}

// Parse reads descriptors from a YAML catalog document. Omitted primary keys
// default to "_id" and omitted endpoint entries fall back to the conventional
// paths for the resource name; every descriptor is validated before being
// returned.
func Parse(data []byte) ([]resource.Descriptor, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	out := make([]resource.Descriptor, 0, len(file.Resources))
	for _, desc := range file.Resources {
		if desc.PrimaryKey == "" {
			desc.PrimaryKey = "_id"
		}
		defaults := resource.DefaultEndpoints(desc.Name)
		if desc.Endpoints.List == "" {
			desc.Endpoints.List = defaults.List
		}
		if desc.Endpoints.Get == "" {
			desc.Endpoints.Get = defaults.Get
		}
		if desc.Endpoints.Create == "" {
			desc.Endpoints.Create = defaults.Create
		}
		if desc.Endpoints.Update == "" {
			desc.Endpoints.Update = defaults.Update
		}
		if desc.Endpoints.Delete == "" {
			desc.Endpoints.Delete = defaults.Delete
		}
		if err := desc.Validate(); err != nil {
			return nil, err
		}
		out = append(out, desc)
	}
	return out, nil
}

// LoadFile parses a YAML catalog from disk.
func LoadFile(path string) ([]resource.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Merge overlays descriptors onto a base set: same-name entries replace,
// new names append. Order of the base set is preserved.
func Merge(base, overlays []resource.Descriptor) []resource.Descriptor {
	out := append([]resource.Descriptor{}, base...)
	for _, overlay := range overlays {
		replaced := false
		for i, existing := range out {
			if existing.Name == overlay.Name {
				out[i] = overlay
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, overlay)
		}
	}
	return out
}
