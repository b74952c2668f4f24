//go:build tools

package main

// Build-time tooling dependencies, pinned through go.mod.
import (
	_ "github.com/swaggo/swag/cmd/swag"
)
