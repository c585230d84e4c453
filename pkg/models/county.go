package models

// County is a top-level administrative region.
type County struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
