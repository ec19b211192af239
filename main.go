// Package main provides the entrypoint for merchant-webhook.
package main

import (
	"os"

	"github.com/isometry/merchant-webhook/cmd"
)

func main() {
	if err := cmd.New(os.Args[1:]...).Execute(); err != nil {
		os.Exit(1)
	}
}
