package utils

import (
	. "github.com/Luismorlan/eventmux/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// InitProfiler starts the Datadog profiler. Only production runs profile.
func InitProfiler(serviceName string) {
	if !IsProdEnv() {
		return
	}

	if err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithEnv("production"),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	); err != nil {
		Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
