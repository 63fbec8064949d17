package demo

import (
	_ "embed"
	"fmt"

	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is static reference data served without a database.
type Catalog struct {
	Models  []phone.Model   `yaml:"models"`
	Sellers []seller.Seller `yaml:"sellers"`
}

// Load parses the embedded catalogue.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	slugs := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Slug == "" {
			return fmt.Errorf("catalog: model without id")
		}
		if slugs[m.Slug] {
			return fmt.Errorf("catalog: duplicate model %q", m.Slug)
		}
		slugs[m.Slug] = true
	}

	ids := make(map[string]bool, len(c.Sellers))
	for _, s := range c.Sellers {
		if s.ID == "" {
			return fmt.Errorf("catalog: seller without id")
		}
		if ids[s.ID] {
			return fmt.Errorf("catalog: duplicate seller %q", s.ID)
		}
		switch s.Type {
		case seller.TypeOnline, seller.TypeOffline, seller.TypeOfficial:
		default:
			return fmt.Errorf("catalog: seller %q has unknown type %q", s.ID, s.Type)
		}
		ids[s.ID] = true
	}
	return nil
}
