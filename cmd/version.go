package cmd

import (
	"fmt"
	"io"
	"runtime"
)

// printVersionInfo writes version details to w.
func printVersionInfo(w io.Writer) error {
	_, err := fmt.Fprintf(w, "bhoomi %s\n  build time: %s\n  git commit: %s\n  go version: %s\n",
		AppVersion, BuildTime, GitCommit, runtime.Version())
	return err
}
