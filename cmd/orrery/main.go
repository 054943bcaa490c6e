// Command orrery is an interactive solar-system viewer with a headless
// ephemeris mode.
package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW and the WebGPU surface must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
