package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultStoreDriver is the store driver used when none is configured.
	DefaultStoreDriver = "mariadb"

	// DefaultDatabaseHost matches the database service name of the
	// deployment the image is built for.
	DefaultDatabaseHost = "mariadb"

	// DefaultDatabasePort is the MariaDB port.
	DefaultDatabasePort = 3306

	// DefaultDatabaseUser is the database user used when none is configured.
	DefaultDatabaseUser = "root"

	// DefaultDatabaseName is the schema holding the pool tables.
	DefaultDatabaseName = "poolsched"

	// DefaultCollector is the collector binary raw jobs execute.
	DefaultCollector = "perceval"

	// DefaultWorkerMaxJobs is how many jobs a worker runs concurrently.
	// The pool scales out with worker processes, not in-process fan out.
	DefaultWorkerMaxJobs = 1

	// DefaultWorkerPoll is how long a worker sleeps when the pool has
	// nothing for it.
	DefaultWorkerPoll = 10 * time.Second
)

// Settings is the resolved scheduler configuration: file values overridden
// by environment, with defaults filled in.
type Settings struct {
	Database   DatabaseSettings
	LogsDir    string
	ArchiveDir string
	Collector  string
	Worker     WorkerSettings
}

// DatabaseSettings selects and parameterizes the store driver.
type DatabaseSettings struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Path is the snapshot file of the memory driver. Empty means the
	// store is volatile. SQL drivers ignore it.
	Path string
}

// DSN renders the go-sql-driver connection string for the mariadb driver.
// Other drivers ignore it.
func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// WorkerSettings holds the scheduling loop knobs.
type WorkerSettings struct {
	MaxJobs int
	Poll    time.Duration
}

// DefaultSettings returns Settings with every field at its default.
func DefaultSettings() Settings {
	return Settings{
		Database: DatabaseSettings{
			Driver: DefaultStoreDriver,
			Host:   DefaultDatabaseHost,
			Port:   DefaultDatabasePort,
			User:   DefaultDatabaseUser,
			Name:   DefaultDatabaseName,
		},
		LogsDir:    DefaultJobLogsDir,
		ArchiveDir: filepath.Join(DefaultJobLogsDir, DefaultArchiveDirName),
		Collector:  DefaultCollector,
		Worker: WorkerSettings{
			MaxJobs: DefaultWorkerMaxJobs,
			Poll:    DefaultWorkerPoll,
		},
	}
}
