package config

import "github.com/bobmcallan/fivetran-mcp/internal/common"

// MaxPageSize is the largest page the Fivetran API returns.
const MaxPageSize = 1000

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "fivetran-mcp",
			Host: "localhost",
			Port: 4243,
		},
		Fivetran: FivetranConfig{
			BaseURL:        "https://api.fivetran.com",
			AllowWrites:    false,
			TimeoutSeconds: 30,
			PageSize:       MaxPageSize,
			MaxPages:       100,
			UserAgent:      "fivetran-mcp",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/fivetran-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
