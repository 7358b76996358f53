// Package main is the single-binary entrypoint for Royal Guard.
package main

import "github.com/royal-guard/royalguard/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
