package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// --- Create Location ---

type CreateLocationInput struct {
	Body struct {
		Name       string          `json:"name" minLength:"1" maxLength:"255" doc:"Unique display name"`
		Type       string          `json:"type" doc:"ROOM, BALCONY, GARDEN, GREENHOUSE or TERRACE"`
		Dimensions *DimensionsBody `json:"dimensions,omitempty" doc:"Physical size"`
	}
}

// --- Get Location ---

type GetLocationInput struct {
	ID string `path:"id" doc:"Location ID"`
}

type GetLocationOutput struct {
	Body domain.LocationView
}

// --- List Locations ---

type ListLocationsOutput struct {
	Body domain.Page[domain.LocationView]
}

// --- Update Location ---

type UpdateLocationInput struct {
	ID   string `path:"id" doc:"Location ID"`
	Body struct {
		Name            *string         `json:"name,omitempty" doc:"New display name"`
		Type            *string         `json:"type,omitempty" doc:"New location type"`
		Dimensions      *DimensionsBody `json:"dimensions,omitempty" doc:"New physical size"`
		ClearDimensions bool            `json:"clearDimensions,omitempty" doc:"Remove the dimensions"`
	}
}

// --- Delete Location ---

type DeleteLocationInput struct {
	ID string `path:"id" doc:"Location ID"`
}

func registerLocations(api huma.API, svc *app.LocationService, queries *app.QueryService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-location",
		Method:        http.MethodPost,
		Path:          "/api/v1/locations",
		Summary:       "Create a location",
		Tags:          []string{"Locations"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateLocationInput) (*CreatedOutput, error) {
		id, err := svc.Create(ctx, app.CreateLocationCommand{
			Name:       input.Body.Name,
			Type:       input.Body.Type,
			Dimensions: input.Body.Dimensions.primitives(),
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatedOutput{Body: CreatedResponse{ID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-location",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Get a location view by ID",
		Tags:        []string{"Locations"},
	}, func(ctx context.Context, input *GetLocationInput) (*GetLocationOutput, error) {
		view, err := queries.Location(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetLocationOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-locations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations",
		Summary:     "Search location views",
		Tags:        []string{"Locations"},
	}, func(ctx context.Context, input *ListInput) (*ListLocationsOutput, error) {
		c, err := input.criteria()
		if err != nil {
			return nil, toHumaError(err)
		}
		page, err := queries.SearchLocations(ctx, c)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListLocationsOutput{Body: page}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-location",
		Method:        http.MethodPatch,
		Path:          "/api/v1/locations/{id}",
		Summary:       "Update a location",
		Tags:          []string{"Locations"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *UpdateLocationInput) (*struct{}, error) {
		err := svc.Update(ctx, app.UpdateLocationCommand{
			ID:              input.ID,
			Name:            input.Body.Name,
			Type:            input.Body.Type,
			Dimensions:      input.Body.Dimensions.primitives(),
			ClearDimensions: input.Body.ClearDimensions,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-location",
		Method:        http.MethodDelete,
		Path:          "/api/v1/locations/{id}",
		Summary:       "Delete an empty location",
		Tags:          []string{"Locations"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteLocationInput) (*struct{}, error) {
		if err := svc.Delete(ctx, app.DeleteLocationCommand{ID: input.ID}); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})
}
