package models

// ZipCode is a 4-digit postal code attached to a place name. PlaceNameID is
// kept off the wire; read endpoints embed the place name (and its county)
// instead.
type ZipCode struct {
	ID          int64      `json:"id"`
	Code        int        `json:"code"`
	PlaceNameID int64      `json:"-"`
	PlaceName   *PlaceName `json:"place_name,omitempty"`
}
