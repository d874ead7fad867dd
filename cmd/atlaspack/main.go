// atlaspack builds deterministic texture atlases from folders of images.
// Single binary, zero config: one atlas per folder, one PNG and one JSON
// manifest per atlas.
package main

import (
	"fmt"
	"os"

	"github.com/corey/atlaspack/cmd/atlaspack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
