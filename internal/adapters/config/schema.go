package config

// Poolfile represents the structure of the poolsched.yaml configuration file.
// Every field is optional; absent fields fall back to environment overrides
// and defaults.
type Poolfile struct {
	Database  *DatabaseDTO `yaml:"database"`
	Logs      string       `yaml:"logs"`
	Archive   string       `yaml:"archive"`
	Collector string       `yaml:"collector"`
	Worker    *WorkerDTO   `yaml:"worker"`
}

// DatabaseDTO selects and parameterizes the store driver.
type DatabaseDTO struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

// WorkerDTO holds the scheduling loop settings.
type WorkerDTO struct {
	MaxJobs int    `yaml:"maxJobs"`
	Poll    string `yaml:"poll"`
}
