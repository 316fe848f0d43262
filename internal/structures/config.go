package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type MongoConfig struct {
	URL      string        `yaml:"url" validate:"required"`
	Database string        `yaml:"database" validate:"required"`
	Timeout  time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type RegistryConfig struct {
	URL          string        `yaml:"url" validate:"required|fullUrl"`
	SuperToken   string        `yaml:"superToken" validate:"required"`
	ReadTimeout  time.Duration `yaml:"readTimeout" validate:"required|min:1"`
	WriteTimeout time.Duration `yaml:"writeTimeout" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DeliveryConfig struct {
	QueueSize int `yaml:"queueSize" validate:"required|min:1"`
	Workers   int `yaml:"workers" validate:"required|min:1"`
}

type ArchiveConfig struct {
	Dir           string        `yaml:"dir" validate:"required|unixPath"`
	FlushInterval time.Duration `yaml:"flushInterval" validate:"required|min:1"`
}

type AuthConfig struct {
	PasswordSalt string `yaml:"passwordSalt" validate:"required"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Mongo     MongoConfig    `yaml:"mongo"`
	Registry  RegistryConfig `yaml:"registry"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Delivery  DeliveryConfig `yaml:"delivery"`
	Archive   ArchiveConfig  `yaml:"archive"`
	Auth      AuthConfig     `yaml:"auth"`
}
