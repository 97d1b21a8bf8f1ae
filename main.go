// Package main implements the license-check CLI, a build gate that
// validates the open-source licenses of a project's dependencies.
package main

import (
	"os"

	"github.com/toby1984/license-check/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
