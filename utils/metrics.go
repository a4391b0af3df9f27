package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	. "github.com/Luismorlan/eventmux/utils/log"
)

const defaultStatsdAddr = "127.0.0.1:8125"

// NewDogStatsdClient connects to the local Datadog agent. addr falls back to
// STATSD_ADDR, then to the agent default. Returns nil when the client cannot
// be created; callers treat a nil counter as metrics disabled.
func NewDogStatsdClient(addr string) *statsd.Client {
	if addr == "" {
		addr = os.Getenv("STATSD_ADDR")
	}
	if addr == "" {
		addr = defaultStatsdAddr
	}
	client, err := statsd.New(addr, statsd.WithNamespace("eventmux."))
	if err != nil {
		Log.Error("fail to create statsd client, metrics disabled: ", err)
		return nil
	}
	return client
}
