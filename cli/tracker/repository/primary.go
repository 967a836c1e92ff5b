package repository

import (
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
	"github.com/daniil11ru/tracker/cli/tracker/source"
)

type Primary struct {
	Source source.Primary
}

func (p *Primary) AddReadings(readings []insert.Reading) (int64, error) {
	return p.Source.AddReadings(readings)
}

func (p *Primary) GetAllLatestReadings() ([]out.Reading, error) {
	return p.Source.GetLatestReadings(filter.LatestReadings{})
}

func (p *Primary) GetLatestReadingsByRegNo(regNo string) ([]out.Reading, error) {
	return p.Source.GetLatestReadings(filter.LatestReadings{RegNo: &regNo})
}

func (p *Primary) GetRegistrations() ([]string, error) {
	return p.Source.GetRegistrations()
}

func (p *Primary) CountReadings() (int64, error) {
	return p.Source.CountReadings()
}

func (p *Primary) Checkpoint() error {
	return p.Source.Checkpoint()
}
