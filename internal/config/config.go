package config

import (
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Task     TaskConfig     `mapstructure:"task"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LedgerConfig settings for the campaign contract and the USDT token
type LedgerConfig struct {
	RpcUrl          string `mapstructure:"rpc_url"`          // RPC node URL
	ChainId         int64  `mapstructure:"chain_id"`         // chain ID
	PrivateKey      string `mapstructure:"private_key"`      // service signing key
	CampaignAddress string `mapstructure:"campaign_address"` // crowdfunding contract
	TokenAddress    string `mapstructure:"token_address"`    // USDT contract
	PollInitialMs   int    `mapstructure:"poll_initial_ms"`  // delay before first read-back
	PollIntervalMs  int    `mapstructure:"poll_interval_ms"` // spacing between read-backs
	PollAttempts    int    `mapstructure:"poll_attempts"`    // read-back attempts after the initial delay
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // seconds
	Workers  int `mapstructure:"workers"`  // reconcile pool size
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"` // project image storage
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // stdout, stderr, file
	File   string `mapstructure:"file"`   // log file path when output is file
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/ideafund")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "ideafund")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ledger.chain_id", 11155111)
	viper.SetDefault("ledger.poll_initial_ms", 5000)
	viper.SetDefault("ledger.poll_interval_ms", 5000)
	viper.SetDefault("ledger.poll_attempts", 3)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("task.workers", 8)
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
