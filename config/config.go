package config

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Version is set at build time.
var (
	Version    = "dev"
	CommitHash = "n/a"
)

// Config is the flattened application configuration.
type Config struct {
	// Server
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// Database
	DBType     string `mapstructure:"db_type"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUsername string `mapstructure:"db_username"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBFilePath string `mapstructure:"db_file_path"`

	// Session
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SessionCookie string        `mapstructure:"session_cookie"`

	// Uploads
	UploadDir       string `mapstructure:"upload_dir"`
	UploadMaxSizeMB int    `mapstructure:"upload_max_size_mb"`

	// Rate limiting
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitMediaRPS   float64       `mapstructure:"rate_limit_media_rps"`
	RateLimitMediaBurst int           `mapstructure:"rate_limit_media_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// Metadata cache for media delivery
	CachePhotoMetaEntries int64 `mapstructure:"cache_photo_meta_entries"`

	// Background workers
	WorkerCount           int           `mapstructure:"worker_count"`
	ThumbnailScanInterval time.Duration `mapstructure:"thumbnail_scan_interval"`
}

// InitConfig loads configuration exactly once.
func InitConfig() {
	once.Do(loadConfig)
}

func Get() *Config {
	return &globalConfig
}

func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}

	if globalConfig.WorkerCount <= 0 {
		globalConfig.WorkerCount = defaultWorkers()
	}
}

func setDefaults() {
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 3000)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "60s")
	viper.SetDefault("server_idle_timeout", "120s")

	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "gallery")
	viper.SetDefault("db_file_path", "")

	viper.SetDefault("session_secret", "")
	viper.SetDefault("session_ttl", "720h")
	viper.SetDefault("session_cookie", "gallery_session")

	viper.SetDefault("upload_dir", "./data/uploads")
	viper.SetDefault("upload_max_size_mb", 200)

	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_media_rps", 100.0)
	viper.SetDefault("rate_limit_media_burst", 200)
	viper.SetDefault("rate_limit_expire_time", "10m")

	viper.SetDefault("cache_photo_meta_entries", 10000)

	viper.SetDefault("worker_count", 0)
	viper.SetDefault("thumbnail_scan_interval", "5m")
}

// Addr returns the listen address as "host:port".
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 3000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL returns the externally visible base URL.
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	host := c.ServerHost
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 2 {
		return 2
	}
	return n
}
