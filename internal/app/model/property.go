package model

import (
	"time"

	"gorm.io/datatypes"
)

type UnitType string

const (
	UnitType1RK      UnitType = "1 RK"
	UnitType1BHK     UnitType = "1 BHK"
	UnitType2BHK     UnitType = "2 BHK"
	UnitType3BHK     UnitType = "3 BHK"
	UnitType4PlusBHK UnitType = "4+ BHK"
)

var UnitTypes = []UnitType{UnitType1RK, UnitType1BHK, UnitType2BHK, UnitType3BHK, UnitType4PlusBHK}

func (u UnitType) Valid() bool {
	for _, v := range UnitTypes {
		if v == u {
			return true
		}
	}
	return false
}

type RentPeriod string

const (
	RentPerMonth RentPeriod = "per month"
	RentPerWeek  RentPeriod = "per week"
	RentPerDay   RentPeriod = "per day"
)

func (r RentPeriod) Valid() bool {
	return r == RentPerMonth || r == RentPerWeek || r == RentPerDay
}

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyStatusActive || s == PropertyStatusInactive
}

// Property is a single rental listing. Location, PropertyType and Availability are
// free text; the filter tables only feed the admin dropdowns.
type Property struct {
	ID           uint                        `gorm:"primarykey" json:"id"`
	PID          string                      `gorm:"column:pid;type:varchar(64);uniqueIndex;not null" json:"pid"`
	Title        string                      `gorm:"not null" json:"title"`
	Location     string                      `gorm:"not null;index" json:"location"`
	Type         UnitType                    `gorm:"type:varchar(20);index" json:"type"`
	Availability string                      `gorm:"type:varchar(50);not null" json:"availability"`
	Furnishing   datatypes.JSONSlice[string] `json:"furnishing"`
	PropertyType string                      `gorm:"type:varchar(50);not null;index" json:"propertyType"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	Price        float64                     `gorm:"not null;index" json:"price"`
	RentPeriod   RentPeriod                  `gorm:"type:varchar(20);not null;default:'per month'" json:"rentPeriod"`
	Status       PropertyStatus              `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt    time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`

	Images []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) IsActive() bool {
	return p.Status == PropertyStatusActive
}

// PrimaryImage returns the cover image or nil.
func (p *Property) PrimaryImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
