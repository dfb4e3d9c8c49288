package config

import "github.com/spf13/viper"

// Default directory permissions for the user config dir
const DefaultDirPermissions = 0o755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "gitonboard.db")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.rate_limit_per_second", 25.0)
	v.SetDefault("server.rate_limit_burst", 50)

	// Board defaults
	v.SetDefault("board.owner", "")
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "GITONBOARD_DATABASE_PATH")
	v.BindEnv("board.owner", "GITONBOARD_BOARD_OWNER")
}
