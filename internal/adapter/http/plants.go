package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// --- Add Plant ---

type AddPlantInput struct {
	GrowingUnitID string `path:"id" doc:"Growing unit ID"`
	Body          struct {
		Name        string     `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Species     string     `json:"species" minLength:"1" doc:"Botanical or common species"`
		PlantedDate *time.Time `json:"plantedDate,omitempty" doc:"When the plant went in (RFC 3339)"`
		Notes       string     `json:"notes,omitempty" doc:"Free-form notes"`
		Status      string     `json:"status,omitempty" doc:"Initial lifecycle status; defaults to PLANTED"`
	}
}

// --- Update Plant ---

type UpdatePlantInput struct {
	GrowingUnitID string `path:"id" doc:"Growing unit ID"`
	PlantID       string `path:"plantId" doc:"Plant ID"`
	Body          struct {
		Name             *string    `json:"name,omitempty" doc:"New display name"`
		Species          *string    `json:"species,omitempty" doc:"New species"`
		PlantedDate      *time.Time `json:"plantedDate,omitempty" doc:"New planted date"`
		ClearPlantedDate bool       `json:"clearPlantedDate,omitempty" doc:"Remove the planted date"`
		Notes            *string    `json:"notes,omitempty" doc:"New notes"`
		Status           *string    `json:"status,omitempty" doc:"Target lifecycle status"`
	}
}

// --- Remove Plant ---

type RemovePlantInput struct {
	GrowingUnitID string `path:"id" doc:"Growing unit ID"`
	PlantID       string `path:"plantId" doc:"Plant ID"`
}

// --- Transplant Plant ---

type TransplantPlantInput struct {
	PlantID string `path:"id" doc:"Plant ID"`
	Body    struct {
		SourceGrowingUnitID string `json:"sourceGrowingUnitId" doc:"Growing unit the plant is in now"`
		TargetGrowingUnitID string `json:"targetGrowingUnitId" doc:"Growing unit to move the plant to"`
	}
}

// --- Get Plant ---

type GetPlantInput struct {
	ID string `path:"id" doc:"Plant ID"`
}

type GetPlantOutput struct {
	Body domain.PlantView
}

// --- List Plants ---

type ListPlantsOutput struct {
	Body domain.Page[domain.PlantView]
}

func registerPlants(api huma.API, svc *app.PlantService, queries *app.QueryService) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-plant",
		Method:        http.MethodPost,
		Path:          "/api/v1/growing-units/{id}/plants",
		Summary:       "Add a plant to a growing unit",
		Tags:          []string{"Plants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *AddPlantInput) (*CreatedOutput, error) {
		id, err := svc.Add(ctx, app.AddPlantCommand{
			GrowingUnitID: input.GrowingUnitID,
			Name:          input.Body.Name,
			Species:       input.Body.Species,
			PlantedDate:   input.Body.PlantedDate,
			Notes:         input.Body.Notes,
			Status:        input.Body.Status,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatedOutput{Body: CreatedResponse{ID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-plant",
		Method:        http.MethodPatch,
		Path:          "/api/v1/growing-units/{id}/plants/{plantId}",
		Summary:       "Update a plant",
		Tags:          []string{"Plants"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *UpdatePlantInput) (*struct{}, error) {
		err := svc.Update(ctx, app.UpdatePlantCommand{
			GrowingUnitID:    input.GrowingUnitID,
			PlantID:          input.PlantID,
			Name:             input.Body.Name,
			Species:          input.Body.Species,
			PlantedDate:      input.Body.PlantedDate,
			ClearPlantedDate: input.Body.ClearPlantedDate,
			Notes:            input.Body.Notes,
			Status:           input.Body.Status,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-plant",
		Method:        http.MethodDelete,
		Path:          "/api/v1/growing-units/{id}/plants/{plantId}",
		Summary:       "Remove a plant from a growing unit",
		Tags:          []string{"Plants"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *RemovePlantInput) (*struct{}, error) {
		err := svc.Remove(ctx, app.RemovePlantCommand{GrowingUnitID: input.GrowingUnitID, PlantID: input.PlantID})
		if err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "transplant-plant",
		Method:        http.MethodPost,
		Path:          "/api/v1/plants/{id}/transplant",
		Summary:       "Move a plant to another growing unit",
		Tags:          []string{"Plants"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *TransplantPlantInput) (*struct{}, error) {
		err := svc.Transplant(ctx, app.TransplantPlantCommand{
			PlantID:             input.PlantID,
			SourceGrowingUnitID: input.Body.SourceGrowingUnitID,
			TargetGrowingUnitID: input.Body.TargetGrowingUnitID,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-plant",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Get a plant view by ID",
		Tags:        []string{"Plants"},
	}, func(ctx context.Context, input *GetPlantInput) (*GetPlantOutput, error) {
		view, err := queries.Plant(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetPlantOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-plants",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants",
		Summary:     "Search plant views",
		Tags:        []string{"Plants"},
	}, func(ctx context.Context, input *ListInput) (*ListPlantsOutput, error) {
		c, err := input.criteria()
		if err != nil {
			return nil, toHumaError(err)
		}
		page, err := queries.SearchPlants(ctx, c)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListPlantsOutput{Body: page}, nil
	})
}
