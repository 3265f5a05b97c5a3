package dto

import (
	"time"

	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/customer"
)

// CreateCustomerRequest is the body for creating a customer.
type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	RUT           string `json:"rut" binding:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CreditEnabled bool   `json:"creditEnabled"`
	CreditLimit   string `json:"creditLimit"`
}

// ToEntity converts the request to a domain customer.
func (r CreateCustomerRequest) ToEntity() (*customer.Customer, error) {
	c := customer.New(r.Name, r.RUT)
	c.Address = r.Address
	c.Phone = r.Phone
	c.Email = r.Email
	c.CreditEnabled = r.CreditEnabled

	c.CreditLimit = types.Zero()
	if r.CreditLimit != "" {
		limit, err := ParseAmount("creditLimit", r.CreditLimit)
		if err != nil {
			return nil, err
		}
		c.CreditLimit = limit
	}
	return c, nil
}

// UpdateCustomerRequest is the body for updating a customer.
// Balance is not updatable here: it only moves through the credit ledger.
type UpdateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	RUT           string `json:"rut" binding:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Active        bool   `json:"active"`
	CreditEnabled bool   `json:"creditEnabled"`
	CreditLimit   string `json:"creditLimit"`
}

// ApplyTo copies updatable fields onto an existing customer.
func (r UpdateCustomerRequest) ApplyTo(c *customer.Customer) error {
	c.Name = r.Name
	c.RUT = customer.NormalizeRUT(r.RUT)
	c.Address = r.Address
	c.Phone = r.Phone
	c.Email = r.Email
	c.Active = r.Active
	c.CreditEnabled = r.CreditEnabled

	c.CreditLimit = types.Zero()
	if r.CreditLimit != "" {
		limit, err := ParseAmount("creditLimit", r.CreditLimit)
		if err != nil {
			return err
		}
		c.CreditLimit = limit
	}
	c.Touch()
	return nil
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	RUT             string    `json:"rut"`
	Address         string    `json:"address,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	Active          bool      `json:"active"`
	CreditEnabled   bool      `json:"creditEnabled"`
	CreditLimit     string    `json:"creditLimit"`
	Balance         string    `json:"balance"`
	AvailableCredit string    `json:"availableCredit"`
	DeletionMark    bool      `json:"deletionMark"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromCustomer converts a domain customer to a response DTO.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID.String(),
		Name:            c.Name,
		RUT:             c.RUT,
		Address:         c.Address,
		Phone:           c.Phone,
		Email:           c.Email,
		Active:          c.Active,
		CreditEnabled:   c.CreditEnabled,
		CreditLimit:     c.CreditLimit.String(),
		Balance:         c.Balance.String(),
		AvailableCredit: c.AvailableCredit().String(),
		DeletionMark:    c.DeletionMark,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// FromCustomers converts a slice of customers.
func FromCustomers(items []*customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCustomer(c))
	}
	return out
}
