package models

// PlaceName is a named locality belonging to a county. CountyID is never
// serialized; read endpoints either omit the county or embed it fully.
type PlaceName struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	CountyID *int64  `json:"-"`
	County   *County `json:"county,omitempty"`
}
