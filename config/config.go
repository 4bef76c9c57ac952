package config

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type       string `yaml:"type"` // memory | sqlite | postgres | bolt | mongo
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Passwd     string `yaml:"passwd"`
	URI        string `yaml:"uri"`        // mongo connection string
	Collection string `yaml:"collection"` // document collection / table / bucket name
	MaxConn    int    `yaml:"max_conn"`
	IdleConn   int    `yaml:"idle_conn"`
	Debug      bool   `yaml:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	NodeID   int64  `yaml:"node_id"` // snowflake node for store-assigned ids
	Demo     bool   `yaml:"demo"`    // seed demo products into an empty store
}

// WebConfig HTTP surface config
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"` // enables bearer auth on /api when set
}

// LogConfig Logger config
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// ReportConfig statistics report settings
type ReportConfig struct {
	Title    string `yaml:"title"`
	Lang     string `yaml:"lang"`
	Colors   string `yaml:"colors"`   // hash | random
	Schedule string `yaml:"schedule"` // cron spec, empty disables the snapshot job
	Share    string `yaml:"share"`    // mail | sftp
}

// MailConfig SMTP settings used to share reports
type MailConfig struct {
	Host   string   `yaml:"host"`
	Port   int      `yaml:"port"`
	User   string   `yaml:"user"`
	Passwd string   `yaml:"passwd"`
	From   string   `yaml:"from"`
	To     []string `yaml:"to"`
}

// SFTPConfig remote drop used when report.share is sftp
type SFTPConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	Passwd  string `yaml:"passwd"`
	HostKey string `yaml:"host_key"` // authorized_keys line; empty skips host verification
	Dir     string `yaml:"dir"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Report   ReportConfig `yaml:"report"`
	Mail     MailConfig   `yaml:"mail"`
	SFTP     SFTPConfig   `yaml:"sftp"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetReportDir() string {
	return path.Join(c.System.Workdir, "reports")
}

// InitDirs creates the working directories
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir(), c.GetReportDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAppConfig returns a config usable without any file
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "bodega",
			Location: "America/Santiago",
			Workdir:  "/var/bodega",
			NodeID:   1,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1816,
		},
		Database: DBConfig{
			Type:       "memory",
			Host:       "127.0.0.1",
			Port:       5432,
			Name:       "bodega",
			User:       "postgres",
			Collection: "Productos",
			MaxConn:    20,
			IdleConn:   5,
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "/var/bodega/logs/bodega.log",
		},
		Report: ReportConfig{
			Title:  "Product Statistics Report",
			Lang:   "es",
			Colors: "hash",
			Share:  "mail",
		},
		Mail: MailConfig{
			Port: 587,
		},
		SFTP: SFTPConfig{
			Port: 22,
			Dir:  "/reports",
		},
	}
}

// LoadConfig reads defaults, then the yaml file when present, then env overrides
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func setEnvValue(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvIntValue(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("BODEGA_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("BODEGA_DEBUG", &cfg.System.Debug)
	setEnvBoolValue("BODEGA_DEMO", &cfg.System.Demo)
	setEnvValue("BODEGA_DB_TYPE", &cfg.Database.Type)
	setEnvValue("BODEGA_DB_URI", &cfg.Database.URI)
	setEnvValue("BODEGA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("BODEGA_DB_PORT", &cfg.Database.Port)
	setEnvValue("BODEGA_DB_NAME", &cfg.Database.Name)
	setEnvValue("BODEGA_DB_USER", &cfg.Database.User)
	setEnvValue("BODEGA_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("BODEGA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("BODEGA_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("BODEGA_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("BODEGA_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
}
