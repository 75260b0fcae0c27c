// Command vrc is a command line client for the VRChat API.
//
// Authentication is by session cookie only: log in through the website or
// the official client and export the "auth" cookie as VRC_AUTH_COOKIE.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
