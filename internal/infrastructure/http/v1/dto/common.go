// Package dto provides Data Transfer Objects for API requests/responses.
//
// Monetary amounts travel as strings in both directions: requests are parsed
// defensively (no float rounding on the wire), responses render exact
// decimals.
package dto

import (
	"time"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain"
)

// IDResponse is a 201 body carrying the created entity's ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// BaseFilter contains common list query parameters.
type BaseFilter struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	OnlyActive     bool   `form:"onlyActive"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// ToDomain converts the query filter to the repository filter.
func (f BaseFilter) ToDomain() domain.ListFilter {
	return domain.ListFilter{
		Search:         f.Search,
		IncludeDeleted: f.IncludeDeleted,
		OnlyActive:     f.OnlyActive,
		OrderBy:        f.OrderBy,
		Limit:          f.Limit,
		Offset:         f.Offset,
	}
}

// --- Parse helpers ---

// ParseAmount parses a required monetary amount from its wire form.
func ParseAmount(field, value string) (types.Money, error) {
	m, err := types.ParseMoney(value)
	if err != nil {
		return types.Zero(), apperror.NewValidation("invalid amount").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return m, nil
}

// ParseOptionalAmount parses an optional monetary amount; empty means unset.
func ParseOptionalAmount(field, value string) (*types.Money, error) {
	if value == "" {
		return nil, nil
	}
	m, err := ParseAmount(field, value)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseID parses a required entity ID.
func ParseID(field, value string) (id.ID, error) {
	parsed, err := id.Parse(value)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return parsed, nil
}

// ParseOptionalID parses an optional entity ID; empty means unset.
func ParseOptionalID(field, value string) (*id.ID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := ParseID(field, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ParseOptionalDate parses an optional RFC 3339 date or date-time.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.NewValidation("invalid date").
		WithDetail("field", field).
		WithDetail("value", value)
}
