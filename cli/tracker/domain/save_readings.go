package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/tracker/cli/tracker/types"
)

const (
	DefaultRegNo      = "Unknown"
	DefaultLat        = 0.0
	DefaultLng        = 0.0
	DefaultSpeed      = "0"
	DefaultStatusText = "Unknown"
	DefaultLocation   = "Unknown"
)

var ErrMalformedRecord = errors.New("некорректная запись о транспорте")

type SaveReadings struct {
	PrimaryRepository ReadingWriter

	// Now подменяется в тестах.
	Now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Run сохраняет записи источника как новые показания. Отсутствующие поля заменяются
// значениями по умолчанию, поле неподходящего типа отклоняет весь вызов.
func (domain *SaveReadings) Run(records []types.VehicleRecord) (int64, error) {
	readings := make([]insert.Reading, 0, len(records))
	for i, record := range records {
		reading, err := toReading(record)
		if err != nil {
			return 0, fmt.Errorf("запись %d: %w", i, err)
		}
		readings = append(readings, reading)
	}

	domain.mu.Lock()
	defer domain.mu.Unlock()

	for i := range readings {
		readings[i].Timestamp = types.FormatCapturedAt(domain.nextCapturedAt())
	}

	return domain.PrimaryRepository.AddReadings(readings)
}

// nextCapturedAt never returns the same microsecond twice.
func (domain *SaveReadings) nextCapturedAt() time.Time {
	now := time.Now
	if domain.Now != nil {
		now = domain.Now
	}

	t := now().Truncate(time.Microsecond)
	if !t.After(domain.last) {
		t = domain.last.Add(time.Microsecond)
	}
	domain.last = t

	return t
}

func toReading(record types.VehicleRecord) (insert.Reading, error) {
	var (
		reading insert.Reading
		err     error
	)

	if reading.RegNo, err = stringField(record, types.FieldRegNo, DefaultRegNo); err != nil {
		return reading, err
	}
	if reading.Lat, err = floatField(record, types.FieldLat, DefaultLat); err != nil {
		return reading, err
	}
	if reading.Lng, err = floatField(record, types.FieldLng, DefaultLng); err != nil {
		return reading, err
	}
	if reading.Speed, err = stringField(record, types.FieldSpeed, DefaultSpeed); err != nil {
		return reading, err
	}
	if reading.StatusText, err = stringField(record, types.FieldStatusText, DefaultStatusText); err != nil {
		return reading, err
	}
	if reading.Location, err = stringField(record, types.FieldLocation, DefaultLocation); err != nil {
		return reading, err
	}

	return reading, nil
}

func stringField(record types.VehicleRecord, key, def string) (string, error) {
	switch v := record[key].(type) {
	case nil:
		return def, nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("%w: поле %s имеет тип %T", ErrMalformedRecord, key, v)
	}
}

func floatField(record types.VehicleRecord, key string, def float64) (float64, error) {
	switch v := record[key].(type) {
	case nil:
		return def, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: поле %s не является конечным числом", ErrMalformedRecord, key)
		}
		return v, nil
	case json.Number:
		return parseFinite(key, v.String())
	case string:
		return parseFinite(key, v)
	default:
		return 0, fmt.Errorf("%w: поле %s имеет тип %T", ErrMalformedRecord, key, v)
	}
}

// parseFinite принимает только десятичную запись конечного числа.
func parseFinite(key, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || strings.ContainsAny(s, "xXpP_") {
		return 0, fmt.Errorf("%w: поле %s не является числом: %q", ErrMalformedRecord, key, s)
	}
	return f, nil
}
