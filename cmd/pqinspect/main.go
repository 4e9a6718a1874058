// Command pqinspect inspects proxy definitions and the adaptations of their
// properties.
package main

import (
	"os"

	"github.com/CrimsonAS/qpropertylinks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
