package source

import (
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
)

type Primary interface {
	Initialize() error

	AddReadings(readings []insert.Reading) (int64, error)
	GetLatestReadings(filter filter.LatestReadings) ([]out.Reading, error)
	GetRegistrations() ([]string, error)
	CountReadings() (int64, error)

	Checkpoint() error
}
