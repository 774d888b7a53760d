package mariadb

import (
	"context"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DriverName is how the MariaDB store is selected in the configuration.
const DriverName = "mariadb"

type driver struct{}

func init() {
	ports.RegisterStoreDriver(DriverName, driver{})
}

// Open connects to the database named by the DSN. gorm pings during
// initialization, so an unreachable database fails here, which is what
// `migrate --wait` retries on.
func (driver) Open(_ context.Context, cfg ports.StoreConfig, log ports.Logger) (ports.Store, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to connect to database")
	}
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Debug("connected to mariadb")
	return NewStore(db, log), nil
}
