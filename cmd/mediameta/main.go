// Command mediameta prints the metadata of audio and video files and keeps
// an sqlite index of media directories.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
