package dto

import (
	"time"

	"almacen/internal/domain/catalogs/category"
	"almacen/internal/domain/catalogs/supplier"
)

// --- Category ---

// CategoryRequest is the body for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// ToEntity converts the request to a domain category.
func (r CategoryRequest) ToEntity() *category.Category {
	c := category.New(r.Name)
	c.Description = r.Description
	if r.Active != nil {
		c.Active = *r.Active
	}
	return c
}

// ApplyTo copies updatable fields onto an existing category.
func (r CategoryRequest) ApplyTo(c *category.Category) {
	c.Name = r.Name
	c.Description = r.Description
	if r.Active != nil {
		c.Active = *r.Active
	}
	c.Touch()
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Active       bool      `json:"active"`
	DeletionMark bool      `json:"deletionMark"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromCategory converts a domain category to a response DTO.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		Active:       c.Active,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromCategories converts a slice of categories.
func FromCategories(items []*category.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCategory(c))
	}
	return out
}

// --- Supplier ---

// SupplierRequest is the body for creating or updating a supplier.
type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	RUT         string `json:"rut"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Active      *bool  `json:"active"`
}

// ToEntity converts the request to a domain supplier.
func (r SupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Name)
	s.RUT = r.RUT
	s.ContactName = r.ContactName
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	if r.Active != nil {
		s.Active = *r.Active
	}
	return s
}

// ApplyTo copies updatable fields onto an existing supplier.
func (r SupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Name = r.Name
	s.RUT = r.RUT
	s.ContactName = r.ContactName
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	if r.Active != nil {
		s.Active = *r.Active
	}
	s.Touch()
}

// SupplierResponse represents a supplier in API responses.
type SupplierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RUT          string    `json:"rut,omitempty"`
	ContactName  string    `json:"contactName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	Active       bool      `json:"active"`
	DeletionMark bool      `json:"deletionMark"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromSupplier converts a domain supplier to a response DTO.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		RUT:          s.RUT,
		ContactName:  s.ContactName,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		Active:       s.Active,
		DeletionMark: s.DeletionMark,
		Version:      s.Version,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// FromSuppliers converts a slice of suppliers.
func FromSuppliers(items []*supplier.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSupplier(s))
	}
	return out
}
