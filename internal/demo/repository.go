package demo

import (
	"context"
	"sort"
	"strings"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
)

// Repositories hand out copies, so callers can never change the catalogue.

type phoneRepository struct {
	c *Catalog
}

func NewPhoneRepository(c *Catalog) phone.Repository {
	return &phoneRepository{c: c}
}

func (r *phoneRepository) ListByManufacturers(_ context.Context, manufacturers []string) ([]phone.Model, error) {
	out := []phone.Model{}
	for _, m := range r.c.Models {
		for _, mfg := range manufacturers {
			if strings.EqualFold(m.Manufacturer, mfg) {
				out = append(out, cloneModel(m))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *phoneRepository) GetBySlug(_ context.Context, slug string) (*phone.Model, error) {
	for _, m := range r.c.Models {
		if m.Slug == slug {
			cp := cloneModel(m)
			return &cp, nil
		}
	}
	return nil, phone.ErrModelNotFound
}

type sellerRepository struct {
	c *Catalog
}

func NewSellerRepository(c *Catalog) seller.Repository {
	return &sellerRepository{c: c}
}

func (r *sellerRepository) List(_ context.Context, opts seller.ListOptions) ([]seller.Seller, error) {
	out := []seller.Seller{}
	for _, s := range r.c.Sellers {
		if opts.Type != "" && s.Type != opts.Type {
			continue
		}
		out = append(out, cloneSeller(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *sellerRepository) GetByID(_ context.Context, id string) (*seller.Seller, error) {
	for _, s := range r.c.Sellers {
		if s.ID == id {
			cp := cloneSeller(s)
			return &cp, nil
		}
	}
	return nil, seller.ErrSellerNotFound
}

func cloneModel(m phone.Model) phone.Model {
	variants := make([]phone.Variant, len(m.Variants))
	for i, v := range m.Variants {
		v.Colors = append([]string(nil), v.Colors...)
		variants[i] = v
	}
	m.Variants = variants
	return m
}

func cloneSeller(s seller.Seller) seller.Seller {
	s.Rating = clonePtr(s.Rating)
	s.Address = clonePtr(s.Address)
	s.BusinessHours = clonePtr(s.BusinessHours)
	s.ContactNumber = clonePtr(s.ContactNumber)
	s.PurchaseURL = clonePtr(s.PurchaseURL)
	if s.Coordinates != nil {
		p := geo.Point{Lat: s.Coordinates.Lat, Lng: s.Coordinates.Lng}
		s.Coordinates = &p
	}
	s.Conditions = append([]string{}, s.Conditions...)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
