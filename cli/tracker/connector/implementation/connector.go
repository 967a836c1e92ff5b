package implementation

import (
	"fmt"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Settings struct {
	Driver       string
	Path         string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
}

type Connector struct {
	connection *gorm.DB
	settings   Settings
}

func getOptionValue(optionName string, optionDefaultValue string, settings map[string]string) string {
	optionValue := settings[optionName]
	if optionValue == "" {
		log.Warnf("Ключ '%s' не найден в конфигурации хранилища. Используется значение по умолчанию '%s'.", optionName, optionDefaultValue)
		optionValue = optionDefaultValue
	}

	return optionValue
}

func (c *Connector) FillSettings(settings map[string]string) error {
	c.settings = Settings{}
	c.settings.Driver = getOptionValue("driver", DriverSQLite, settings)

	defaultPort := ""
	switch c.settings.Driver {
	case DriverSQLite:
		c.settings.Path = getOptionValue("path", "vehicles.db", settings)
	case DriverPostgres:
		defaultPort = "5432"
	case DriverMySQL:
		defaultPort = "3306"
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %s", c.settings.Driver)
	}

	if c.settings.Driver != DriverSQLite {
		c.settings.Host = getOptionValue("host", "localhost", settings)
		c.settings.Port = getOptionValue("port", defaultPort, settings)
		c.settings.User = getOptionValue("user", "tracker", settings)
		c.settings.Password = getOptionValue("password", "tracker", settings)
		c.settings.Database = getOptionValue("database", "tracker", settings)
		c.settings.SSLMode = getOptionValue("sslmode", "disable", settings)
	}

	maxOpenConns, err := strconv.Atoi(getOptionValue("max_open_conns", "4", settings))
	if err != nil || maxOpenConns <= 0 {
		return fmt.Errorf("некорректное значение max_open_conns: %q", settings["max_open_conns"])
	}
	c.settings.MaxOpenConns = maxOpenConns

	return nil
}

func (c *Connector) dialector() gorm.Dialector {
	switch c.settings.Driver {
	case DriverPostgres:
		return postgres.New(postgres.Config{
			DSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				c.settings.Host, c.settings.User, c.settings.Password, c.settings.Database, c.settings.Port, c.settings.SSLMode),
			PreferSimpleProtocol: true,
		})
	case DriverMySQL:
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4",
			c.settings.User, c.settings.Password, c.settings.Host, c.settings.Port, c.settings.Database))
	default:
		return sqlite.Open(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", c.settings.Path))
	}
}

func (c *Connector) Connect(settings map[string]string) error {
	if settings == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	if err := c.FillSettings(settings); err != nil {
		return err
	}

	db, err := gorm.Open(c.dialector(), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных (%s): %w", c.settings.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить пул соединений: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.settings.MaxOpenConns)

	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("база данных (%s) недоступна: %w", c.settings.Driver, err)
	}

	c.connection = db
	log.WithField("driver", c.settings.Driver).Info("Установлено соединение с хранилищем")

	return nil
}

func (c *Connector) GetConnection() *gorm.DB {
	return c.connection
}

func (c *Connector) GetDriver() string {
	return c.settings.Driver
}

// GetMigrationURL возвращает адрес базы в формате golang-migrate.
func (c *Connector) GetMigrationURL() string {
	switch c.settings.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.settings.User, c.settings.Password),
			Host:     c.settings.Host + ":" + c.settings.Port,
			Path:     "/" + c.settings.Database,
			RawQuery: "sslmode=" + url.QueryEscape(c.settings.SSLMode),
		}
		return u.String()
	case DriverMySQL:
		return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s",
			url.QueryEscape(c.settings.User), url.QueryEscape(c.settings.Password), c.settings.Host, c.settings.Port, c.settings.Database)
	default:
		return "sqlite3://" + c.settings.Path
	}
}

func (c *Connector) Close() error {
	if c.connection == nil {
		return nil
	}
	sqlDB, err := c.connection.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
