package model

import "time"

// PropertyImage is one uploaded photo. Filename is the bucket object key.
// idx_primary_image_per_property allows a single is_primary row per property.
type PropertyImage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PropertyID uint      `gorm:"not null;index;uniqueIndex:idx_primary_image_per_property,where:is_primary = true" json:"propertyId"`
	Filename   string    `gorm:"not null" json:"filename"`
	URL        string    `gorm:"not null" json:"url"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"isPrimary"`
	Size       int64     `json:"size"`
	Mimetype   string    `gorm:"type:varchar(100)" json:"mimetype"`
	SortOrder  int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}
