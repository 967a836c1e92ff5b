package domain

import (
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
)

type ReadingWriter interface {
	AddReadings(readings []insert.Reading) (int64, error)
}

type ReadingReader interface {
	GetAllLatestReadings() ([]out.Reading, error)
}

type StoreMaintainer interface {
	Checkpoint() error
	CountReadings() (int64, error)
}
