package connector

import (
	"gorm.io/gorm"
)

type Connector interface {
	GetConnection() *gorm.DB
	GetDriver() string
	GetMigrationURL() string
	Connect(map[string]string) error
	Close() error
}
