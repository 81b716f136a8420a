package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// --- Create Growing Unit ---

type CreateGrowingUnitInput struct {
	Body struct {
		LocationID string          `json:"locationId" doc:"Location that holds the unit"`
		Name       string          `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Type       string          `json:"type" doc:"POT, GARDEN_BED, HANGING_BASKET or WINDOW_BOX"`
		Capacity   int             `json:"capacity" doc:"Maximum number of plants, at least 1"`
		Dimensions *DimensionsBody `json:"dimensions,omitempty" doc:"Physical size"`
	}
}

// --- Get Growing Unit ---

type GetGrowingUnitInput struct {
	ID string `path:"id" doc:"Growing unit ID"`
}

type GetGrowingUnitOutput struct {
	Body domain.GrowingUnitView
}

// --- List Growing Units ---

type ListGrowingUnitsOutput struct {
	Body domain.Page[domain.GrowingUnitView]
}

// --- Update Growing Unit ---

type UpdateGrowingUnitInput struct {
	ID   string `path:"id" doc:"Growing unit ID"`
	Body struct {
		LocationID      *string         `json:"locationId,omitempty" doc:"Move the unit to another location"`
		Name            *string         `json:"name,omitempty" doc:"New display name"`
		Type            *string         `json:"type,omitempty" doc:"New unit type"`
		Capacity        *int            `json:"capacity,omitempty" doc:"New capacity; not below the current plant count"`
		Dimensions      *DimensionsBody `json:"dimensions,omitempty" doc:"New physical size"`
		ClearDimensions bool            `json:"clearDimensions,omitempty" doc:"Remove the dimensions"`
	}
}

// --- Delete Growing Unit ---

type DeleteGrowingUnitInput struct {
	ID string `path:"id" doc:"Growing unit ID"`
}

func registerGrowingUnits(api huma.API, svc *app.GrowingUnitService, queries *app.QueryService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-growing-unit",
		Method:        http.MethodPost,
		Path:          "/api/v1/growing-units",
		Summary:       "Create a growing unit",
		Tags:          []string{"Growing units"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateGrowingUnitInput) (*CreatedOutput, error) {
		id, err := svc.Create(ctx, app.CreateGrowingUnitCommand{
			LocationID: input.Body.LocationID,
			Name:       input.Body.Name,
			Type:       input.Body.Type,
			Capacity:   input.Body.Capacity,
			Dimensions: input.Body.Dimensions.primitives(),
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatedOutput{Body: CreatedResponse{ID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-growing-unit",
		Method:      http.MethodGet,
		Path:        "/api/v1/growing-units/{id}",
		Summary:     "Get a growing unit view by ID",
		Tags:        []string{"Growing units"},
	}, func(ctx context.Context, input *GetGrowingUnitInput) (*GetGrowingUnitOutput, error) {
		view, err := queries.GrowingUnit(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetGrowingUnitOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-growing-units",
		Method:      http.MethodGet,
		Path:        "/api/v1/growing-units",
		Summary:     "Search growing unit views",
		Tags:        []string{"Growing units"},
	}, func(ctx context.Context, input *ListInput) (*ListGrowingUnitsOutput, error) {
		c, err := input.criteria()
		if err != nil {
			return nil, toHumaError(err)
		}
		page, err := queries.SearchGrowingUnits(ctx, c)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListGrowingUnitsOutput{Body: page}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-growing-unit",
		Method:        http.MethodPatch,
		Path:          "/api/v1/growing-units/{id}",
		Summary:       "Update a growing unit",
		Tags:          []string{"Growing units"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *UpdateGrowingUnitInput) (*struct{}, error) {
		err := svc.Update(ctx, app.UpdateGrowingUnitCommand{
			ID:              input.ID,
			LocationID:      input.Body.LocationID,
			Name:            input.Body.Name,
			Type:            input.Body.Type,
			Capacity:        input.Body.Capacity,
			Dimensions:      input.Body.Dimensions.primitives(),
			ClearDimensions: input.Body.ClearDimensions,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-growing-unit",
		Method:        http.MethodDelete,
		Path:          "/api/v1/growing-units/{id}",
		Summary:       "Delete a growing unit and its plants",
		Tags:          []string{"Growing units"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteGrowingUnitInput) (*struct{}, error) {
		if err := svc.Delete(ctx, app.DeleteGrowingUnitCommand{ID: input.ID}); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})
}
