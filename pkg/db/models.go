package db

import "time"

// ClientPreference is a name/value row surviving restarts. The active
// business id and user identity live here; orders and carts never do.
type ClientPreference struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the gorm default.
func (ClientPreference) TableName() string {
	return "client_preferences"
}
