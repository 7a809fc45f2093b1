// Package config loads the client configuration.
//
// Settings start from built-in defaults and are overlaid with the user file
// at ~/.meow/config.yaml when it exists. Keys missing from the file keep their
// default values.
//
//	irc:
//	  server: irc.libera.chat
//	  port: 6697
//	  nick: meow
//	  tls: true
//	  realname: meow IRC Client
//	  quit_message: Bye!
//	  max_reconnect_attempts: 0  # 0 retries forever
//	theme:
//	  background: "#1E1E2E"
//	  foreground: "#CDD6F4"
//	  accent: "#89B4FA"
//	  muted: "#A6E3A1"
//	  icons: true
//	layout:
//	  width: 80
//	  padding: 2
//	  height: 20
//	log:
//	  file: /tmp/meow.log
//	  level: debug
//
// The configuration is read once at startup and handed to the session and
// the UI as plain values.
package config
