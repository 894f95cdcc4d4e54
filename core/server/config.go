package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the bearer key for regular (staff) callers.
	ApiKey string `mapstructure:"api_key" default:""`
	// AdminKey is the bearer key for privileged (admin) callers.
	// Privileged callers may initialize stock cycles for any date.
	AdminKey string `mapstructure:"admin_key" default:""`
}

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// ResolveRole returns the role for a presented bearer key, or the empty
// string when the key matches neither configured key. Empty configured keys
// never match, so an unset key cannot be satisfied by an empty header.
func (c Config) ResolveRole(key string) string {
	if key == "" {
		return ""
	}
	switch key {
	case c.AdminKey:
		return RoleAdmin
	case c.ApiKey:
		return RoleStaff
	default:
		return ""
	}
}
