package config

const (
	DefaultPort        = 6697
	DefaultNick        = "meow"
	DefaultRealName    = "meow IRC Client"
	DefaultQuitMessage = "Bye!"

	DefaultWidth   = 80
	DefaultPadding = 2
	DefaultHeight  = 20

	DefaultLogLevel = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		IRC: IRCConfig{
			Port:        DefaultPort,
			Nick:        DefaultNick,
			TLS:         true,
			RealName:    DefaultRealName,
			QuitMessage: DefaultQuitMessage,
		},
		Layout: LayoutConfig{
			Width:   DefaultWidth,
			Padding: DefaultPadding,
			Height:  DefaultHeight,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
