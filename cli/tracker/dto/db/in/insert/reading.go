package insert

type Reading struct {
	RegNo      string
	Lat        float64
	Lng        float64
	Speed      string
	StatusText string
	Location   string
	Timestamp  string
}
