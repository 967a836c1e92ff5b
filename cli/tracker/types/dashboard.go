package types

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Marker struct {
	Position   [2]float64 `json:"position"`
	RegNo      string     `json:"reg_no"`
	StatusText string     `json:"status_text"`
	Speed      string     `json:"speed"`
	Location   string     `json:"location"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Timestamp  string     `json:"timestamp"`
}

// Dashboard is everything the page needs for one redraw.
type Dashboard struct {
	Options []Option `json:"options"`
	Markers []Marker `json:"markers"`
}
