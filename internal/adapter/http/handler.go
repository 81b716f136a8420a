package http

import (
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// Services bundles the application services the API drives.
type Services struct {
	Locations    *app.LocationService
	GrowingUnits *app.GrowingUnitService
	Plants       *app.PlantService
	Queries      *app.QueryService
}

// Register adds all growspace API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerLocations(api, svc.Locations, svc.Queries)
	registerGrowingUnits(api, svc.GrowingUnits, svc.Queries)
	registerPlants(api, svc.Plants, svc.Queries)
}

// --- Shared request and response shapes ---

// DimensionsBody is the API representation of physical dimensions.
type DimensionsBody struct {
	Length float64 `json:"length" doc:"Length, greater than zero"`
	Width  float64 `json:"width" doc:"Width, greater than zero"`
	Height float64 `json:"height" doc:"Height, greater than zero"`
	Unit   string  `json:"unit" doc:"Unit of measure, e.g. METERS or CENTIMETERS"`
}

func (d *DimensionsBody) primitives() *domain.DimensionsPrimitives {
	if d == nil {
		return nil
	}
	return &domain.DimensionsPrimitives{Length: d.Length, Width: d.Width, Height: d.Height, Unit: d.Unit}
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id" doc:"Identifier of the created resource"`
}

type CreatedOutput struct {
	Body CreatedResponse
}

// ListInput holds the criteria query parameters shared by every list endpoint.
type ListInput struct {
	Filter  string `query:"filter" required:"false" doc:"Semicolon-separated field:operator:value filters, e.g. status:in:PLANTED,GROWING;name:contains:basil"`
	Sort    string `query:"sort" required:"false" doc:"Comma-separated fields; prefix with - for descending, e.g. -createdAt,name"`
	Page    int    `query:"page" required:"false" default:"1" minimum:"1" doc:"1-based page number"`
	PerPage int    `query:"perPage" required:"false" default:"20" minimum:"1" maximum:"100" doc:"Items per page"`
}

// criteria converts the query parameters into domain criteria.
func (in ListInput) criteria() (domain.Criteria, error) {
	c := domain.Criteria{Pagination: domain.Pagination{Page: in.Page, PerPage: in.PerPage}}

	for _, raw := range strings.Split(in.Filter, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return domain.Criteria{}, &domain.InvalidValueError{Field: "filter", Value: raw, Reason: "want field:operator:value"}
		}
		op, err := domain.ParseOperator(parts[1])
		if err != nil {
			return domain.Criteria{}, err
		}
		c.Filters = append(c.Filters, domain.Filter{Field: parts[0], Operator: op, Value: parts[2]})
	}

	for _, raw := range strings.Split(in.Sort, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		s := domain.Sort{Field: raw, Direction: domain.Asc}
		if field, ok := strings.CutPrefix(raw, "-"); ok {
			s = domain.Sort{Field: field, Direction: domain.Desc}
		}
		c.Sorts = append(c.Sorts, s)
	}
	return c, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var (
		conflictErr    *domain.ConflictError
		concurrencyErr *domain.ConcurrencyConflictError
		inUseErr       *domain.LocationInUseError
	)
	if errors.As(err, &conflictErr) || errors.As(err, &concurrencyErr) || errors.As(err, &inUseErr) {
		return huma.Error409Conflict(err.Error())
	}

	if domain.IsInvariantViolation(err) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
