package config

// Config is the complete client configuration.
type Config struct {
	IRC    IRCConfig    `yaml:"irc"`
	Theme  ThemeConfig  `yaml:"theme"`
	Layout LayoutConfig `yaml:"layout"`
	Log    LogConfig    `yaml:"log"`
}

// IRCConfig holds connection defaults used by /connect and on startup.
type IRCConfig struct {
	Server               string `yaml:"server"`
	Port                 int    `yaml:"port"`
	Nick                 string `yaml:"nick"`
	TLS                  bool   `yaml:"tls"`
	RealName             string `yaml:"realname"`
	QuitMessage          string `yaml:"quit_message"`
	MaxReconnectAttempts int    `yaml:"max_reconnect_attempts"`
}

// ThemeConfig holds "#RRGGBB" colors. Empty or malformed values fall back to
// the built-in palette.
type ThemeConfig struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Icons      bool   `yaml:"icons"`
}

// LayoutConfig bounds the rendered area. Width and Height are maxima; the
// terminal size wins when it is smaller.
type LayoutConfig struct {
	Width   int `yaml:"width"`
	Padding int `yaml:"padding"`
	Height  int `yaml:"height"`
}

// LogConfig controls the diagnostic log. Logging is off when File is empty.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}
