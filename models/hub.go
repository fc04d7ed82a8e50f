package models

import "time"

// PickupHub is a physical collection point customers can choose instead of
// home delivery. Admin-managed reference data.
type PickupHub struct {
	HubID     string    `json:"hubId" bson:"hubId"`
	Name      string    `json:"name" bson:"name"`
	Area      string    `json:"area,omitempty" bson:"area,omitempty"`
	Region    string    `json:"region,omitempty" bson:"region,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
