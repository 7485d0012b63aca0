// Command blockx-gen writes the type registration files that populate the
// blockx type universe.
//
// Usage:
//
//	# Register the types of the current package
//	blockx-gen generate
//
//	# Register every package of the module
//	blockx-gen generate ./...
//
//	# Show what would be registered
//	blockx-gen list ./internal/...
//
//	# Write a default blockx.yaml
//	blockx-gen init
//
// Add a go:generate directive to keep the files current:
//
//	//go:generate go run github.com/hengadev/blockx/cmd/blockx-gen generate
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
