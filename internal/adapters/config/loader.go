// Package config provides the configuration loader for poolsched.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied on top of the file. The DB_* names are the
// ones the deployment already exports for the database container.
const (
	EnvDriver     = "POOLSCHED_DRIVER"
	EnvDBPath     = "POOLSCHED_DB_PATH"
	EnvArchiveDir = "POOLSCHED_ARCHIVE_DIR"
	EnvCollector  = "POOLSCHED_COLLECTOR"
	EnvJobLogs    = "JOB_LOGS"
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves settings from the nearest poolsched.yaml walking up from
// cwd, environment overrides, then defaults. A missing file is not an
// error: the container deployment configures everything through the
// environment.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	var file Poolfile

	if configPath := l.findConfiguration(cwd); configPath != "" {
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return domain.Settings{}, zerr.With(err, "path", configPath)
		}
	} else {
		l.Logger.Debug(fmt.Sprintf("no %s found, using environment and defaults", domain.ConfigFileName))
	}

	return l.resolve(file)
}

// LoadFile resolves settings from an explicit configuration file.
func (l *Loader) LoadFile(path string) (domain.Settings, error) {
	var file Poolfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}

	return l.resolve(file)
}

func (l *Loader) findConfiguration(cwd string) string {
	currentDir := cwd

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (l *Loader) resolve(file Poolfile) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	fileArchive, err := applyFile(file, &settings)
	if err != nil {
		return domain.Settings{}, err
	}

	envArchive, err := applyEnvironment(&settings)
	if err != nil {
		return domain.Settings{}, err
	}

	// The archive lives under the logs dir unless placed explicitly, so
	// moving the logs dir moves it too.
	if !fileArchive && !envArchive {
		settings.ArchiveDir = filepath.Join(settings.LogsDir, domain.DefaultArchiveDirName)
	}

	if err := validateSettings(settings); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

// applyFile merges the non-zero file values onto the settings. It reports
// whether the file placed the archive dir explicitly.
func applyFile(file Poolfile, settings *domain.Settings) (bool, error) {
	if db := file.Database; db != nil {
		if db.Driver != "" {
			settings.Database.Driver = db.Driver
		}
		if db.Host != "" {
			settings.Database.Host = db.Host
		}
		if db.Port != 0 {
			settings.Database.Port = db.Port
		}
		if db.User != "" {
			settings.Database.User = db.User
		}
		if db.Password != "" {
			settings.Database.Password = db.Password
		}
		if db.Name != "" {
			settings.Database.Name = db.Name
		}
		if db.Path != "" {
			settings.Database.Path = db.Path
		}
	}

	if file.Logs != "" {
		settings.LogsDir = file.Logs
	}

	archiveSet := file.Archive != ""
	if archiveSet {
		settings.ArchiveDir = file.Archive
	}

	if file.Collector != "" {
		settings.Collector = file.Collector
	}

	if w := file.Worker; w != nil {
		if w.MaxJobs != 0 {
			settings.Worker.MaxJobs = w.MaxJobs
		}
		if w.Poll != "" {
			poll, parseErr := time.ParseDuration(w.Poll)
			if parseErr != nil {
				wrapped := zerr.Wrap(parseErr, domain.ErrConfigInvalid.Error())
				return false, zerr.With(wrapped, "field", "worker.poll")
			}
			settings.Worker.Poll = poll
		}
	}

	return archiveSet, nil
}

// applyEnvironment merges set environment variables onto the settings. It
// reports whether the environment placed the archive dir explicitly.
func applyEnvironment(settings *domain.Settings) (bool, error) {
	if v := os.Getenv(EnvDriver); v != "" {
		settings.Database.Driver = v
	}
	if v := os.Getenv(EnvDBHost); v != "" {
		settings.Database.Host = v
	}
	if v := os.Getenv(EnvDBPort); v != "" {
		port, convErr := strconv.Atoi(v)
		if convErr != nil {
			err := zerr.With(domain.ErrConfigInvalid, "env", EnvDBPort)
			return false, zerr.With(err, "value", v)
		}
		settings.Database.Port = port
	}
	if v := os.Getenv(EnvDBUser); v != "" {
		settings.Database.User = v
	}
	if v := os.Getenv(EnvDBPassword); v != "" {
		settings.Database.Password = v
	}
	if v := os.Getenv(EnvDBName); v != "" {
		settings.Database.Name = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		settings.Database.Path = v
	}
	if v := os.Getenv(EnvJobLogs); v != "" {
		settings.LogsDir = v
	}

	archiveSet := false
	if v := os.Getenv(EnvArchiveDir); v != "" {
		settings.ArchiveDir = v
		archiveSet = true
	}

	if v := os.Getenv(EnvCollector); v != "" {
		settings.Collector = v
	}

	return archiveSet, nil
}

func validateSettings(settings domain.Settings) error {
	if settings.Database.Port < 1 || settings.Database.Port > 65535 {
		err := zerr.With(domain.ErrConfigInvalid, "field", "database.port")
		return zerr.With(err, "value", settings.Database.Port)
	}
	if settings.Database.Name == "" {
		return zerr.With(domain.ErrConfigInvalid, "field", "database.name")
	}
	if settings.LogsDir == "" {
		return zerr.With(domain.ErrConfigInvalid, "field", "logs")
	}
	if settings.Collector == "" {
		return zerr.With(domain.ErrConfigInvalid, "field", "collector")
	}
	if settings.Worker.MaxJobs < 1 {
		err := zerr.With(domain.ErrConfigInvalid, "field", "worker.maxJobs")
		return zerr.With(err, "value", settings.Worker.MaxJobs)
	}
	if settings.Worker.Poll <= 0 {
		err := zerr.With(domain.ErrConfigInvalid, "field", "worker.poll")
		return zerr.With(err, "value", settings.Worker.Poll.String())
	}
	return nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
