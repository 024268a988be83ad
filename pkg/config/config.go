package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置。
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Log          LogConfig          `mapstructure:"log"`
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Chat         ChatConfig         `mapstructure:"chat"`
	Notification NotificationConfig `mapstructure:"notification"`
	Cache        CacheConfig        `mapstructure:"cache"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"`
	LogLevel        string        `mapstructure:"log_level"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

type GRPCConfig struct {
	Port           int    `mapstructure:"port"`
	Network        string `mapstructure:"network"`
	MaxRecvMsgSize int    `mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize int    `mapstructure:"max_send_msg_size"`
}

// AuthConfig 访问令牌校验配置。
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// ServiceToken 内部接口共享密钥，为空时内部接口全部拒绝
	ServiceToken string `mapstructure:"service_token"`
}

// ChatConfig 私信相关配置。
type ChatConfig struct {
	AllowSelfMessages bool `mapstructure:"allow_self_messages"`
	MaxBodyLength     int  `mapstructure:"max_body_length"`
	DefaultPageSize   int  `mapstructure:"default_page_size"`
}

// NotificationConfig 通知相关配置。
type NotificationConfig struct {
	StrictOwnership bool `mapstructure:"strict_ownership"`
	FanoutChunkSize int  `mapstructure:"fanout_chunk_size"`
	DefaultPageSize int  `mapstructure:"default_page_size"`
}

type CacheConfig struct {
	IdentityTTL time.Duration `mapstructure:"identity_ttl"`
}

var globalConfig *Config

// SetGlobalConfig stores the process-wide config after startup loading.
func SetGlobalConfig(cfg *Config) {
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide config, or defaults if none was loaded.
func GetGlobalConfig() *Config {
	if globalConfig == nil {
		cfg := Default()
		return cfg
	}
	return globalConfig
}

// Default returns a Config populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	normalize(cfg)
	cfg.Notification.StrictOwnership = true
	return cfg
}

// Load 加载配置文件。
func Load(configPath string) (*Config, error) {
	// .env 仅用于本地开发，缺失时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("grpc.network", "tcp")
	v.SetDefault("notification.strict_ownership", true)
	// 仅由环境变量提供的键需要先登记，否则 Unmarshal 读不到
	for _, key := range []string{"auth.jwt_secret", "auth.service_token", "database.password", "redis.password"} {
		v.SetDefault(key, "")
	}

	// 设置环境变量前缀，例如 MESSAGING_DATABASE_PASSWORD
	v.SetEnvPrefix("MESSAGING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}

// normalize 补全默认值
func normalize(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.GRPC.Network == "" {
		c.GRPC.Network = "tcp"
	}
	if c.GRPC.MaxRecvMsgSize == 0 {
		c.GRPC.MaxRecvMsgSize = 4 << 20
	}
	if c.GRPC.MaxSendMsgSize == 0 {
		c.GRPC.MaxSendMsgSize = 4 << 20
	}
	if c.Chat.MaxBodyLength == 0 {
		c.Chat.MaxBodyLength = 4000
	}
	if c.Chat.DefaultPageSize == 0 {
		c.Chat.DefaultPageSize = 50
	}
	if c.Notification.FanoutChunkSize == 0 {
		c.Notification.FanoutChunkSize = 500
	}
	if c.Notification.DefaultPageSize == 0 {
		c.Notification.DefaultPageSize = 20
	}
	if c.Cache.IdentityTTL == 0 {
		c.Cache.IdentityTTL = 5 * time.Minute
	}
}

// GetDSN 根据驱动构建 DSN。
func (c *DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case "postgres":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
	case "sqlite":
		if c.Path == "" {
			return "messaging.db"
		}
		return c.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
	}
}

// GetRedisAddr 获取 Redis 地址。
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
