package source

import (
	"embed"
	"errors"
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/connector"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations
var migrations embed.FS

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverMySQL    = "mysql"
)

type DefaultPrimary struct {
	db           *gorm.DB
	driver       string
	migrationURL string
}

func NewDefaultPrimary(c connector.Connector) *DefaultPrimary {
	return &DefaultPrimary{
		db:           c.GetConnection(),
		driver:       c.GetDriver(),
		migrationURL: c.GetMigrationURL(),
	}
}

// Initialize создает таблицу vehicles, если ее еще нет, и для SQLite включает WAL,
// чтобы чтение не блокировалось записью поллера.
func (s *DefaultPrimary) Initialize() error {
	src, err := iofs.New(migrations, "migrations/"+s.driver)
	if err != nil {
		return fmt.Errorf("не найдены миграции для драйвера %s: %w", s.driver, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, s.migrationURL)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("ошибка применения миграций: %w", err)
		}
		log.Debug("Нет новых миграций для применения")
	} else {
		log.Info("Миграции успешно применены")
	}

	if s.driver == driverSQLite {
		var mode string
		if err := s.db.Raw("PRAGMA journal_mode=WAL").Scan(&mode).Error; err != nil {
			return fmt.Errorf("не удалось включить WAL: %w", err)
		}
		log.WithField("journal_mode", mode).Debug("Режим журнала SQLite")
	}

	return nil
}

func (s *DefaultPrimary) AddReadings(readings []insert.Reading) (int64, error) {
	const q = `
		INSERT INTO vehicles (RegNo, Lat, Lng, Speed, StatusText, Location, Timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var added int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range readings {
			res := tx.Exec(q, r.RegNo, r.Lat, r.Lng, r.Speed, r.StatusText, r.Location, r.Timestamp)
			if res.Error != nil {
				return res.Error
			}
			added += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("не удалось сохранить показания: %w", err)
	}

	return added, nil
}

// GetLatestReadings возвращает по одной строке на номер: с максимальным Timestamp,
// а при равенстве меток - с максимальным ID.
func (s *DefaultPrimary) GetLatestReadings(filter filter.LatestReadings) ([]out.Reading, error) {
	readings := []out.Reading{}

	sub := s.db.Table("vehicles AS v").Select(`
		v.ID AS id,
		COALESCE(v.RegNo, 'Unknown') AS reg_no,
		COALESCE(v.Lat, 0) AS lat,
		COALESCE(v.Lng, 0) AS lng,
		COALESCE(v.Speed, '0') AS speed,
		COALESCE(v.StatusText, 'Unknown') AS status_text,
		COALESCE(v.Location, 'Unknown') AS location,
		COALESCE(v.Timestamp, '') AS captured_at,
		ROW_NUMBER() OVER (PARTITION BY COALESCE(v.RegNo, 'Unknown') ORDER BY v.Timestamp DESC, v.ID DESC) AS rn`)

	if filter.RegNo != nil {
		sub = sub.Where("COALESCE(v.RegNo, 'Unknown') = ?", *filter.RegNo)
	}

	q := s.db.Table("(?) AS ranked", sub).
		Where("rn = 1").
		Select("id, reg_no, lat, lng, speed, status_text, location, captured_at").
		Order("reg_no, id")

	if err := q.Scan(&readings).Error; err != nil {
		return nil, fmt.Errorf("не удалось получить последние показания: %w", err)
	}

	return readings, nil
}

func (s *DefaultPrimary) GetRegistrations() ([]string, error) {
	regNos := []string{}
	const q = `
		SELECT DISTINCT COALESCE(RegNo, 'Unknown') AS reg_no
		FROM vehicles
		ORDER BY reg_no
	`
	if err := s.db.Raw(q).Scan(&regNos).Error; err != nil {
		return nil, fmt.Errorf("не удалось получить список номеров: %w", err)
	}
	return regNos, nil
}

func (s *DefaultPrimary) CountReadings() (int64, error) {
	var count int64
	if err := s.db.Table("vehicles").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("не удалось посчитать показания: %w", err)
	}
	return count, nil
}

func (s *DefaultPrimary) Checkpoint() error {
	var q string
	switch s.driver {
	case driverSQLite:
		q = "PRAGMA wal_checkpoint(TRUNCATE)"
	case driverPostgres:
		q = "ANALYZE vehicles"
	case driverMySQL:
		q = "ANALYZE TABLE vehicles"
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %s", s.driver)
	}

	if err := s.db.Exec(q).Error; err != nil {
		return fmt.Errorf("ошибка обслуживания хранилища: %w", err)
	}
	return nil
}
