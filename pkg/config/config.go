package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPort      = 1080
	DefaultUploadDir = "./files"
	DefaultPublicDir = "./public"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Meta    MetaConfig    `mapstructure:"meta"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	UploadQPS  int    `mapstructure:"upload_qps"` // 0 表示不限流
	ShowQRCode bool   `mapstructure:"show_qrcode"`
}

type StorageConfig struct {
	UploadDir   string `mapstructure:"upload_dir"`
	PublicDir   string `mapstructure:"public_dir"`
	MaxMemoryMB int64  `mapstructure:"max_memory_mb"` // multipart 解析时驻留内存的上限
}

// MetaConfig 上传记录的存储后端：memory / mysql / redis
type MetaConfig struct {
	Backend       string `mapstructure:"backend"`
	MySQLDSN      string `mapstructure:"mysql_dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LoadConfig 读取 config.yaml（可选）与 FILESERVER_* 环境变量，未配置项使用默认值。
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("FILESERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.upload_qps", 0)
	v.SetDefault("server.show_qrcode", false)

	v.SetDefault("storage.upload_dir", DefaultUploadDir)
	v.SetDefault("storage.public_dir", DefaultPublicDir)
	v.SetDefault("storage.max_memory_mb", 32)

	v.SetDefault("meta.backend", "memory")
	v.SetDefault("meta.mysql_dsn", "")
	v.SetDefault("meta.redis_addr", "127.0.0.1:6379")
	v.SetDefault("meta.redis_password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
}
