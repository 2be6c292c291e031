package model

import "time"

// FilterKind names one of the taxonomy resources. The value is the URL segment.
type FilterKind string

const (
	FilterLocations      FilterKind = "locations"
	FilterPropertyTypes  FilterKind = "property-types"
	FilterOccupancyTypes FilterKind = "occupancy-types"
)

var FilterKinds = []FilterKind{FilterLocations, FilterPropertyTypes, FilterOccupancyTypes}

// Table is the table backing the kind. All three share the FilterOption row shape.
func (k FilterKind) Table() string {
	switch k {
	case FilterLocations:
		return "locations"
	case FilterPropertyTypes:
		return "property_types"
	case FilterOccupancyTypes:
		return "occupancy_types"
	default:
		return ""
	}
}

func (k FilterKind) Valid() bool {
	return k.Table() != ""
}

// Label is the singular display name used in messages.
func (k FilterKind) Label() string {
	switch k {
	case FilterLocations:
		return "Location"
	case FilterPropertyTypes:
		return "Property type"
	case FilterOccupancyTypes:
		return "Occupancy type"
	default:
		return "Filter"
	}
}

// FilterOption is a named reference-data row (location, property type, occupancy type).
type FilterOption struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
