package models

// Journal repräsentiert eine Fachzeitschrift.
type Journal struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null;index"`
	Publisher    *string  `json:"publisher"`
	ISSN         *string  `json:"issn" gorm:"column:issn"`
	ImpactFactor *float64 `json:"impact_factor"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Journal) TableName() string {
	return "journals"
}
