package storage

type Config struct {
	Storage struct {
		Backend string `yaml:"backend"` // "json" or "sqlite"
		Dir     string `yaml:"dir"`     // ledger directory for the json backend
		DBPath  string `yaml:"db_path"` // database path for the sqlite backend
	} `yaml:"storage"`

	Fetch struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
		MaxItems       int    `yaml:"max_items"`
	} `yaml:"fetch"`

	Webhook struct {
		Endpoint string `yaml:"endpoint,omitempty"`
	} `yaml:"webhook,omitempty"`

	UI struct {
		Language       string `yaml:"language"` // "English" or "Deutsch"
		RefreshSeconds int    `yaml:"refresh_seconds"`
	} `yaml:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Storage.Backend = "json"
	cfg.Storage.Dir = "./data"
	cfg.Storage.DBPath = "./feeddeck.db"
	cfg.Fetch.TimeoutSeconds = 5
	cfg.Fetch.UserAgent = "FeedDeck/1.0"
	cfg.Fetch.MaxItems = 5
	cfg.UI.Language = "English"
	return cfg
}
