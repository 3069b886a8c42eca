package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	OracleHTTP  = "http"
	OracleMySQL = "mysql"

	// StockSame answers stock queries from the same backend as the catalog.
	StockSame  = "same"
	StockRedis = "redis"
)

type Config struct {
	Env      string
	LogLevel string `mapstructure:"log_level"`
	Store    StoreConfig
	Oracle   OracleConfig
	HTTP     HTTPConfig
}

type StoreConfig struct {
	Backend    string
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisAddr  string `mapstructure:"redis_addr"`
	Key        string
}

type OracleConfig struct {
	Backend  string
	APIURL   string `mapstructure:"api_url"`
	Timeout  time.Duration
	MySQLDSN string `mapstructure:"mysql_dsn"`
	Stock    string
}

type HTTPConfig struct {
	Addr string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("store.backend", StoreSQLite)
	v.SetDefault("store.sqlite_path", "cart.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.key", "@RocketShoes:cart")
	v.SetDefault("oracle.backend", OracleHTTP)
	v.SetDefault("oracle.api_url", "http://localhost:3333")
	v.SetDefault("oracle.timeout", 5*time.Second)
	v.SetDefault("oracle.mysql_dsn", "root:root@tcp(localhost:3306)/rocketshoes?parseTime=true")
	v.SetDefault("oracle.stock", StockSame)
	v.SetDefault("http.addr", ":8080")
}

// Load reads configuration from an optional config file (cart.yaml in the
// working or home directory, or configFile if set) and CART_* environment variables.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("CART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	switch c.Oracle.Backend {
	case OracleHTTP, OracleMySQL:
	default:
		return fmt.Errorf("unsupported oracle backend %q", c.Oracle.Backend)
	}
	switch c.Oracle.Stock {
	case StockSame, StockRedis:
	default:
		return fmt.Errorf("unsupported stock source %q", c.Oracle.Stock)
	}
	if c.Store.Key == "" {
		return errors.New("store key must not be empty")
	}
	return nil
}
