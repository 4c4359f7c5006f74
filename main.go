// Package main is the entry point for the jsdelta CLI.
package main

import "jsdelta.dev/pkg/jsdelta/cmd"

func main() {
	cmd.Execute()
}
