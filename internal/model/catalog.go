package model

// SuperHero carries its protection area populated and its super powers as
// an id list, matching the persisted reference shape.
type SuperHero struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Alias          string          `json:"alias"`
	ProtectionArea *ProtectionArea `json:"protectionArea"`
	SuperPowerIDs  []string        `json:"superPowers"`
}

type SuperPower struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProtectionArea is a circular coverage zone centered on a coordinate.
// Radius is in kilometers.
type ProtectionArea struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}
