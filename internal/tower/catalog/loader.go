package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	Rooms []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room entry.
type yamlRoom struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Floor        int             `yaml:"floor"`
	Kind         string          `yaml:"kind"`
	Size         Size            `yaml:"size"`
	MaxOccupants int             `yaml:"max_occupants"`
	AgentOnly    bool            `yaml:"agent_only"`
	Furniture    []yamlFurniture `yaml:"furniture"`
}

// yamlFurniture is the YAML representation of a furniture item.
type yamlFurniture struct {
	ID       string `yaml:"id"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Sittable bool   `yaml:"sittable"`
}

// LoadFromFile reads and validates a room catalog YAML file.
//
// Precondition: path must point to a valid YAML catalog file.
// Postcondition: Returns validated catalog entries or a non-nil error.
func LoadFromFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a room catalog from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: Returns validated catalog entries or a non-nil error.
func LoadFromBytes(data []byte) ([]Entry, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}

	entries := make([]Entry, 0, len(file.Rooms))
	for _, yr := range file.Rooms {
		kind := yr.Kind
		if kind == "" {
			kind = KindCommon
		}
		entry := Entry{
			ID:           yr.ID,
			Name:         yr.Name,
			Floor:        yr.Floor,
			Kind:         kind,
			Size:         yr.Size,
			MaxOccupants: yr.MaxOccupants,
			AgentOnly:    yr.AgentOnly,
		}
		for _, yf := range yr.Furniture {
			entry.Furniture = append(entry.Furniture, Furniture(yf))
		}
		entries = append(entries, entry)
	}

	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
