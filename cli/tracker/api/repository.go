package api

import (
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
	"github.com/daniil11ru/tracker/cli/tracker/types"
)

type Repository interface {
	GetAllLatestReadings() ([]out.Reading, error)
	GetLatestReadingsByRegNo(regNo string) ([]out.Reading, error)
	GetRegistrations() ([]string, error)
}

type DashboardBuilder interface {
	Run(selected string) (types.Dashboard, error)
}
