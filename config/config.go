package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// ApiConfig remote api configuration
type ApiConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Debug   bool          `yaml:"debug"`
	// NodeID seeds the request id generator, 0-1023
	NodeID int64 `yaml:"node_id"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System SysConfig `yaml:"system"`
	Api    ApiConfig `yaml:"api"`
	Logger LogConfig `yaml:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ToughInvoice",
		Location: "Asia/Ho_Chi_Minh",
		Workdir:  "/var/toughinvoice",
		Debug:    true,
	},
	Api: ApiConfig{
		BaseURL: "http://localhost:5000/api",
		Timeout: 10 * time.Second,
		Debug:   false,
		NodeID:  1,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/toughinvoice/toughinvoice.log",
	},
}

// LoadConfig reads the yaml file over the defaults, then applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := *DefaultAppConfig
	if cfile == "" {
		cfile = "toughinvoice.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("TOUGHINVOICE_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("TOUGHINVOICE_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("TOUGHINVOICE_DEBUG", &cfg.System.Debug)

	setEnvValue("TOUGHINVOICE_API_URL", &cfg.Api.BaseURL)
	setEnvDurationValue("TOUGHINVOICE_API_TIMEOUT", &cfg.Api.Timeout)
	setEnvBoolValue("TOUGHINVOICE_API_DEBUG", &cfg.Api.Debug)
	setEnvInt64Value("TOUGHINVOICE_API_NODE_ID", &cfg.Api.NodeID)

	setEnvValue("TOUGHINVOICE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("TOUGHINVOICE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("TOUGHINVOICE_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.Api.BaseURL = strings.TrimRight(cfg.Api.BaseURL, "/")
	if cfg.Api.Timeout <= 0 {
		cfg.Api.Timeout = DefaultAppConfig.Api.Timeout
	}
	return &cfg
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvInt64Value(name string, val *int64) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToInt64E(evalue); err == nil {
		*val = p
	}
}

// setEnvDurationValue accepts "15s" style values or a plain number of seconds.
func setEnvDurationValue(name string, val *time.Duration) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if secs, err := cast.ToInt64E(evalue); err == nil {
		*val = time.Duration(secs) * time.Second
		return
	}
	if d, err := cast.ToDurationE(evalue); err == nil {
		*val = d
	}
}
