package config

// Features are the configuration-driven toggles for optional editor
// actions. Disabled features are hidden from the workflow rather than
// failing at the backend.
type Features struct {
	AITemplate  bool `yaml:"ai_template" koanf:"ai_template"`
	AIImage     bool `yaml:"ai_image" koanf:"ai_image"`
	LocalUpload bool `yaml:"local_upload" koanf:"local_upload"`
}

// PreviewConfig holds local preview server settings.
type PreviewConfig struct {
	Port        int  `yaml:"port" koanf:"port"`
	OpenBrowser bool `yaml:"open_browser" koanf:"open_browser"`
}

// Config is the top-level blogsmith configuration, corresponding to
// .blogsmith.yml.
type Config struct {
	APIURL         string        `yaml:"api_url" koanf:"api_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	SharePlatform  string        `yaml:"share_platform" koanf:"share_platform"`
	Features       Features      `yaml:"features" koanf:"features"`
	Preview        PreviewConfig `yaml:"preview" koanf:"preview"`
}
