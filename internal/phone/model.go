package phone

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Brand string

const (
	BrandGalaxy Brand = "galaxy"
	BrandIPhone Brand = "iphone"
)

var brandManufacturers = map[Brand]string{
	BrandGalaxy: "Samsung",
	BrandIPhone: "Apple",
}

// Brands lists the supported brands in display order.
var Brands = []Brand{BrandGalaxy, BrandIPhone}

func (b Brand) Manufacturer() string {
	return brandManufacturers[b]
}

func ParseBrand(s string) (Brand, error) {
	b := Brand(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := brandManufacturers[b]; !ok {
		return "", ErrInvalidBrand
	}
	return b, nil
}

type Variant struct {
	Storage       string   `json:"storage" yaml:"storage"`
	Colors        []string `json:"colors" yaml:"colors"`
	OfficialPrice int64    `json:"officialPrice" yaml:"officialPrice"`
}

type Model struct {
	Slug         string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Manufacturer string    `json:"brand" yaml:"brand"`
	Series       string    `json:"series" yaml:"series"`
	Variants     []Variant `json:"variants" yaml:"variants"`
}

// Brand maps the manufacturer back to a brand, empty when unsupported.
func (m Model) Brand() Brand {
	for b, mfg := range brandManufacturers {
		if strings.EqualFold(mfg, m.Manufacturer) {
			return b
		}
	}
	return ""
}

// AveragePrice is the lowest official price across variants, the figure the
// catalogue shows next to a model.
func (m Model) AveragePrice() int64 {
	var min int64
	for i, v := range m.Variants {
		if i == 0 || v.OfficialPrice < min {
			min = v.OfficialPrice
		}
	}
	return min
}

// Variant finds a variant by storage label, case-insensitively.
func (m Model) Variant(storage string) (Variant, bool) {
	for _, v := range m.Variants {
		if strings.EqualFold(v.Storage, storage) {
			return v, true
		}
	}
	return Variant{}, false
}

var storagePattern = regexp.MustCompile(`(?i)(\d+)\s*gb`)

// ParseStorageGB turns "128GB" into 128.
func ParseStorageGB(storage string) (int, bool) {
	m := storagePattern.FindStringSubmatch(storage)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func StorageLabel(gb int) string {
	return fmt.Sprintf("%dGB", gb)
}
