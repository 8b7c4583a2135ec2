package models

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// self reference, reserved for a future hierarchy; rendered flat today
	ParentID *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}
