package types

// VehicleRecord is one vehicle-state object as returned by the remote location source.
// Keys are optional: RegNo, Lat, Lng, Speed, StatusText, Location.
type VehicleRecord map[string]any

const (
	FieldRegNo      = "RegNo"
	FieldLat        = "Lat"
	FieldLng        = "Lng"
	FieldSpeed      = "Speed"
	FieldStatusText = "StatusText"
	FieldLocation   = "Location"
)
