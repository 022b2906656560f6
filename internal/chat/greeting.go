package chat

import "fmt"

// Version is the server release version.
const Version = "0.2.0"

// BuildCommit is injected at build time via -ldflags.
var BuildCommit = "unknown"

// WelcomeMessage is sent as a system message to every freshly registered
// session. The client renders it as HTML.
func WelcomeMessage() string {
	return fmt.Sprintf(
		"Welcome to the Earthdawn Dice Roll Chat.<br>Server version: %s. Build version: %s",
		Version, BuildCommit,
	)
}
