// Command pingcount drives a counter mailbox with concurrent producers.
//
//	pingcount --producers 100 --events 1
//	pingcount serve --nats-url nats://localhost:4222 --metrics-addr :2121
//
// Every flag can also be set via MAILBOX_<FLAG> (dashes become underscores)
// or a YAML config file passed with --config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
