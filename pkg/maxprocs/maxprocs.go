// Package maxprocs aligns GOMAXPROCS with the container CPU quota at process
// startup.
package maxprocs

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Adjust sets GOMAXPROCS from the cgroup CPU limit. A failure is reported but
// never fatal; the process keeps the runtime default.
func Adjust() {
	if _, err := maxprocs.Set(); err != nil {
		fmt.Fprintf(os.Stderr, "adjusting GOMAXPROCS: %v\n", err)
	}
}
