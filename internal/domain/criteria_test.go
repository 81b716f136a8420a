package domain_test

import (
	"math"
	"testing"

	"github.com/neomorfeo/growspace/internal/domain"
)

func TestCriteria_NormalizeDefaults(t *testing.T) {
	c, err := domain.Criteria{Sorts: []domain.Sort{{Field: "name"}}}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.Pagination.Page != 1 || c.Pagination.PerPage != domain.DefaultPerPage {
		t.Errorf("pagination = %+v, want page 1 perPage %d", c.Pagination, domain.DefaultPerPage)
	}
	if c.Sorts[0].Direction != domain.Asc {
		t.Errorf("direction = %q, want %q", c.Sorts[0].Direction, domain.Asc)
	}
}

func TestCriteria_NormalizeCapsPerPage(t *testing.T) {
	c, err := domain.Criteria{Pagination: domain.Pagination{Page: 3, PerPage: 1000}}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.Pagination.PerPage != domain.MaxPerPage {
		t.Errorf("PerPage = %d, want %d", c.Pagination.PerPage, domain.MaxPerPage)
	}
	if c.Pagination.Offset() != 2*domain.MaxPerPage {
		t.Errorf("Offset = %d, want %d", c.Pagination.Offset(), 2*domain.MaxPerPage)
	}
}

func TestCriteria_NormalizeClampsHugePage(t *testing.T) {
	c, err := domain.Criteria{Pagination: domain.Pagination{Page: math.MaxInt, PerPage: domain.MaxPerPage}}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.Pagination.Page != domain.MaxPage {
		t.Errorf("Page = %d, want %d", c.Pagination.Page, domain.MaxPage)
	}
	if c.Pagination.Offset() < 0 {
		t.Errorf("Offset = %d, want non-negative", c.Pagination.Offset())
	}
}

func TestPagination_OffsetSaturates(t *testing.T) {
	p := domain.Pagination{Page: math.MaxInt / 10, PerPage: 20}
	if got := p.Offset(); got != math.MaxInt {
		t.Errorf("Offset = %d, want math.MaxInt", got)
	}
}

func TestCriteria_NormalizeRejectsBadOperator(t *testing.T) {
	_, err := domain.Criteria{Filters: []domain.Filter{{Field: "name", Operator: "like", Value: "x"}}}.Normalize()
	if !domain.IsInvariantViolation(err) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestNewPage(t *testing.T) {
	p := domain.NewPage([]string{"a", "b"}, 5, domain.Pagination{Page: 1, PerPage: 2})
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}

	empty := domain.NewPage[string](nil, 0, domain.Pagination{Page: 1, PerPage: 20})
	if empty.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
	if empty.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", empty.TotalPages)
	}
}
