package pos

// Config holds configuration for the external inventory provider.
type Config struct {
	// BaseURL is the provider API root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://api.pos.example.com"`
	// AppID is the application identifier used to authenticate.
	AppID string `mapstructure:"app_id" default:""`
	// AppSecret is the shared secret used to authenticate.
	AppSecret string `mapstructure:"app_secret" default:""`
	// ProductGroup is the product group label kept when syncing; all other
	// groups are discarded.
	ProductGroup string `mapstructure:"product_group" default:"Bahan Baku"`
	// TimeoutSeconds is the per-request timeout for provider calls.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}
