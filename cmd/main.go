// Command agrovision serves the AgroVision farmer dashboard API.
package main

import (
	"os"
)

// Version is set by build flags.
var Version = "dev"

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
