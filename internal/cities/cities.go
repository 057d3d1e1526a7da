// Package cities loads the bundled city list used for suggestions.
package cities

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

//go:embed cities.json
var bundled []byte

const defaultLimit = 10

// Catalog is an immutable, name-sorted city list.
type Catalog struct {
	cities []models.City
}

// Load reads the list from path, or the bundled asset when path is empty.
func Load(path string) (*Catalog, error) {
	data := bundled
	if path != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read city list %s: %w", path, err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var list []models.City
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse city list: %w", err)
	}

	cities := make([]models.City, 0, len(list))
	for _, c := range list {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool {
		return strings.ToLower(cities[i].Name) < strings.ToLower(cities[j].Name)
	})

	return &Catalog{cities: cities}, nil
}

func (c *Catalog) Len() int {
	return len(c.cities)
}

// Suggest returns up to limit cities whose name starts with prefix,
// case-insensitively. A non-positive limit means the default of 10.
func (c *Catalog) Suggest(prefix string, limit int) []models.City {
	if limit <= 0 {
		limit = defaultLimit
	}
	p := strings.ToLower(strings.TrimSpace(prefix))

	out := make([]models.City, 0, limit)
	for _, city := range c.cities {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(city.Name), p) {
			out = append(out, city)
		}
	}
	return out
}
