package out

type Reading struct {
	ID         int64   `json:"id" gorm:"column:id"`
	RegNo      string  `json:"reg_no" gorm:"column:reg_no"`
	Lat        float64 `json:"lat" gorm:"column:lat"`
	Lng        float64 `json:"lng" gorm:"column:lng"`
	Speed      string  `json:"speed" gorm:"column:speed"`
	StatusText string  `json:"status_text" gorm:"column:status_text"`
	Location   string  `json:"location" gorm:"column:location"`
	Timestamp  string  `json:"timestamp" gorm:"column:captured_at"`
}
