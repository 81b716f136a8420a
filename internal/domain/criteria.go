package domain

import (
	"fmt"
	"math"
	"slices"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEqual          Operator = "eq"
	OpNotEqual       Operator = "neq"
	OpGreater        Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLess           Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpContains       Operator = "contains"
	OpIn             Operator = "in"
)

// ParseOperator validates s as an Operator.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual, OpContains, OpIn:
		return op, nil
	}
	return "", &InvalidEnumError{Enum: "filter operator", Value: s}
}

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter restricts results to views whose Field compares to Value.
// Field is a JSON path into the view document (e.g. "location.name").
// For OpIn, Value is a comma-separated list.
type Filter struct {
	Field    string
	Operator Operator
	Value    string
}

// Sort orders results by Field.
type Sort struct {
	Field     string
	Direction Direction
}

// Pagination selects one page of results. Page is 1-based.
type Pagination struct {
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	// MaxPage keeps Offset within int for any PerPage up to MaxPerPage.
	MaxPage = math.MaxInt / MaxPerPage
)

// Criteria is consumed by read repositories' FindByCriteria.
type Criteria struct {
	Filters    []Filter
	Sorts      []Sort
	Pagination Pagination
}

// Normalize fills in pagination defaults and validates operators and directions.
func (c Criteria) Normalize() (Criteria, error) {
	for _, f := range c.Filters {
		if f.Field == "" {
			return Criteria{}, &InvalidValueError{Field: "filter field", Value: f.Field, Reason: "must not be empty"}
		}
		if _, err := ParseOperator(string(f.Operator)); err != nil {
			return Criteria{}, err
		}
	}
	c.Sorts = slices.Clone(c.Sorts)
	for i, s := range c.Sorts {
		switch s.Direction {
		case "":
			c.Sorts[i].Direction = Asc
		case Asc, Desc:
		default:
			return Criteria{}, &InvalidEnumError{Enum: "sort direction", Value: string(s.Direction)}
		}
	}
	if c.Pagination.Page < 1 {
		c.Pagination.Page = 1
	}
	if c.Pagination.Page > MaxPage {
		c.Pagination.Page = MaxPage
	}
	if c.Pagination.PerPage < 1 {
		c.Pagination.PerPage = DefaultPerPage
	}
	if c.Pagination.PerPage > MaxPerPage {
		c.Pagination.PerPage = MaxPerPage
	}
	return c, nil
}

// Offset returns the index of the first item on the page. It saturates at
// math.MaxInt instead of overflowing.
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// Page is the paginated envelope returned by criteria queries.
type Page[V any] struct {
	Items      []V `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds the envelope for one page of a total result set.
func NewPage[V any](items []V, total int, p Pagination) Page[V] {
	if items == nil {
		items = []V{}
	}
	pages := 0
	if p.PerPage > 0 {
		pages = (total + p.PerPage - 1) / p.PerPage
	}
	return Page[V]{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage, TotalPages: pages}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %s", f.Field, f.Operator, f.Value)
}
