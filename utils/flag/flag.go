/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic.
	For service dependent flags please define in their respective package.
	Binaries call flag.Parse() in main, never in init, so that test binaries
	can register their own flags.
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Seeder    = "seeder"
)

var (
	ServiceName    = flag.String("service", APIServer, "'api_server' or 'seeder'")
	AppSettingPath = flag.String("app_setting_path", "cmd/server/config.yaml", "path to the server app setting yaml")
)
