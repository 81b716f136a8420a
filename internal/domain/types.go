package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh random identity.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates s as a UUID and returns its canonical form.
func ParseID(field, s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", &InvalidValueError{Field: field, Value: s, Reason: "must be a UUID"}
	}
	return id.String(), nil
}

// GrowingUnitType is the kind of container plants grow in.
type GrowingUnitType string

const (
	GrowingUnitPot           GrowingUnitType = "POT"
	GrowingUnitGardenBed     GrowingUnitType = "GARDEN_BED"
	GrowingUnitHangingBasket GrowingUnitType = "HANGING_BASKET"
	GrowingUnitWindowBox     GrowingUnitType = "WINDOW_BOX"
)

// GrowingUnitTypes lists every valid GrowingUnitType.
var GrowingUnitTypes = []GrowingUnitType{
	GrowingUnitPot, GrowingUnitGardenBed, GrowingUnitHangingBasket, GrowingUnitWindowBox,
}

// ParseGrowingUnitType validates s as a GrowingUnitType.
func ParseGrowingUnitType(s string) (GrowingUnitType, error) {
	for _, t := range GrowingUnitTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &InvalidEnumError{Enum: "growing unit type", Value: s}
}

// LocationType is the kind of space a location is.
type LocationType string

const (
	LocationRoom       LocationType = "ROOM"
	LocationBalcony    LocationType = "BALCONY"
	LocationGarden     LocationType = "GARDEN"
	LocationGreenhouse LocationType = "GREENHOUSE"
	LocationTerrace    LocationType = "TERRACE"
)

// LocationTypes lists every valid LocationType.
var LocationTypes = []LocationType{
	LocationRoom, LocationBalcony, LocationGarden, LocationGreenhouse, LocationTerrace,
}

// ParseLocationType validates s as a LocationType.
func ParseLocationType(s string) (LocationType, error) {
	for _, t := range LocationTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &InvalidEnumError{Enum: "location type", Value: s}
}

// PlantStatus is the lifecycle state of a plant.
type PlantStatus string

const (
	PlantPlanted   PlantStatus = "PLANTED"
	PlantGrowing   PlantStatus = "GROWING"
	PlantHarvested PlantStatus = "HARVESTED"
	PlantDead      PlantStatus = "DEAD"
	PlantArchived  PlantStatus = "ARCHIVED"
)

// PlantStatuses lists every valid PlantStatus.
var PlantStatuses = []PlantStatus{
	PlantPlanted, PlantGrowing, PlantHarvested, PlantDead, PlantArchived,
}

// ParsePlantStatus validates s as a PlantStatus.
func ParsePlantStatus(s string) (PlantStatus, error) {
	for _, st := range PlantStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &InvalidEnumError{Enum: "plant status", Value: s}
}

// PlantLifecycleEvent names an action that moves a plant between statuses.
type PlantLifecycleEvent string

const (
	PlantEventSprout  PlantLifecycleEvent = "sprout"
	PlantEventHarvest PlantLifecycleEvent = "harvest"
	PlantEventDie     PlantLifecycleEvent = "die"
	PlantEventArchive PlantLifecycleEvent = "archive"
)

// PlantTransition defines a valid status change: an event moves a plant from Src to Dst.
type PlantTransition struct {
	Event PlantLifecycleEvent
	Src   PlantStatus
	Dst   PlantStatus
}

// PlantTransitions defines all valid status changes in the plant lifecycle.
// ARCHIVED is terminal and reachable from every other status.
var PlantTransitions = []PlantTransition{
	{Event: PlantEventSprout, Src: PlantPlanted, Dst: PlantGrowing},
	{Event: PlantEventHarvest, Src: PlantGrowing, Dst: PlantHarvested},
	{Event: PlantEventDie, Src: PlantPlanted, Dst: PlantDead},
	{Event: PlantEventDie, Src: PlantGrowing, Dst: PlantDead},
	{Event: PlantEventArchive, Src: PlantPlanted, Dst: PlantArchived},
	{Event: PlantEventArchive, Src: PlantGrowing, Dst: PlantArchived},
	{Event: PlantEventArchive, Src: PlantHarvested, Dst: PlantArchived},
	{Event: PlantEventArchive, Src: PlantDead, Dst: PlantArchived},
}

func requireText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &InvalidValueError{Field: field, Value: s, Reason: "must not be empty"}
	}
	return s, nil
}
