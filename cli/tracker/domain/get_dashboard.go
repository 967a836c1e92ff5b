package domain

import (
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/types"
)

type GetDashboard struct {
	PrimaryRepository ReadingReader
}

// Run строит варианты выпадающего списка и маркеры по последним показаниям.
// Пустой selected означает, что показываются все машины.
func (domain *GetDashboard) Run(selected string) (types.Dashboard, error) {
	dashboard := types.Dashboard{
		Options: []types.Option{},
		Markers: []types.Marker{},
	}

	readings, err := domain.PrimaryRepository.GetAllLatestReadings()
	if err != nil {
		return dashboard, fmt.Errorf("не удалось получить последние показания: %w", err)
	}

	for _, r := range readings {
		dashboard.Options = append(dashboard.Options, types.Option{Label: r.RegNo, Value: r.RegNo})

		if selected != "" && selected != r.RegNo {
			continue
		}
		dashboard.Markers = append(dashboard.Markers, types.Marker{
			Position:   [2]float64{r.Lat, r.Lng},
			RegNo:      r.RegNo,
			StatusText: r.StatusText,
			Speed:      r.Speed,
			Location:   r.Location,
			Lat:        r.Lat,
			Lng:        r.Lng,
			Timestamp:  r.Timestamp,
		})
	}

	return dashboard, nil
}
