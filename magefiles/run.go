//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the demo with the hot-reloaded demo configuration.
func (Run) Demo() error {
	mg.Deps(Build.Demo)
	fmt.Println("Run demo...")
	_, err := executeCmd("./"+binary, withArgs("-config", "configs/demo.toml"), withStream())
	return err
}
