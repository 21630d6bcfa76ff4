package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration, loaded from .env, the
// environment (CARBOARD_ prefix) and bound command-line flags.
type Config struct {
	DataPath      string
	Source        string
	ServerAddress string
	SampleSize    int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	MaxRetries     int

	SnapshotDir string
	ChromeBin   string
	Verbose     bool
}

// Config keys shared with the flag bindings in cmd.
const (
	KeyDataPath         = "data_path"
	KeySource           = "source"
	KeyServerAddress    = "server_address"
	KeySampleSize       = "sample_size"
	KeyPostgresHost     = "postgres_host"
	KeyPostgresPort     = "postgres_port"
	KeyPostgresUser     = "postgres_user"
	KeyPostgresPassword = "postgres_password"
	KeyPostgresDB       = "postgres_db"
	KeyPostgresSSLMode  = "postgres_sslmode"
	KeyMaxConcurrency   = "max_concurrency"
	KeyMaxRetries       = "max_retries"
	KeySnapshotDir      = "snapshot_dir"
	KeyChromeBin        = "chrome_bin"
	KeyVerbose          = "verbose"
)

// Sources a dataset can be loaded from.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CARBOARD"

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataPath, "./output/clean.csv")
	v.SetDefault(KeySource, SourceCSV)
	v.SetDefault(KeyServerAddress, ":8080")
	v.SetDefault(KeySampleSize, 20)

	v.SetDefault(KeyPostgresHost, "localhost")
	v.SetDefault(KeyPostgresPort, "5432")
	v.SetDefault(KeyPostgresUser, "carboard")
	v.SetDefault(KeyPostgresPassword, "carboard")
	v.SetDefault(KeyPostgresDB, "car_sales")
	v.SetDefault(KeyPostgresSSLMode, "disable")

	v.SetDefault(KeyMaxConcurrency, 3)
	v.SetDefault(KeyMaxRetries, 3)

	v.SetDefault(KeySnapshotDir, "./output/charts")
	v.SetDefault(KeyChromeBin, "")
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the .env file and returns a Config populated from the global viper instance.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	v := viper.GetViper()
	SetDefaults(v)
	return FromViper(v)
}

// FromViper builds a Config from an already-initialised viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		DataPath:      v.GetString(KeyDataPath),
		Source:        strings.ToLower(v.GetString(KeySource)),
		ServerAddress: v.GetString(KeyServerAddress),
		SampleSize:    v.GetInt(KeySampleSize),

		PostgresHost:     v.GetString(KeyPostgresHost),
		PostgresPort:     v.GetString(KeyPostgresPort),
		PostgresUser:     v.GetString(KeyPostgresUser),
		PostgresPassword: v.GetString(KeyPostgresPassword),
		PostgresDB:       v.GetString(KeyPostgresDB),
		PostgresSSLMode:  v.GetString(KeyPostgresSSLMode),

		MaxConcurrency: v.GetInt(KeyMaxConcurrency),
		MaxRetries:     v.GetInt(KeyMaxRetries),

		SnapshotDir: v.GetString(KeySnapshotDir),
		ChromeBin:   v.GetString(KeyChromeBin),
		Verbose:     v.GetBool(KeyVerbose),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
