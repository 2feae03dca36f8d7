package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/cardtrack/internal/flagx"
)

// ServerFlags lists the flags owned by the server configuration.
var ServerFlags = []string{"-a", "-g", "-d", "-s", "-t", "-k", "-l"}

// parseFlags overlays command-line flags onto config.
//
//	-a string    HTTP bind address (e.g. ":8080")
//	-g string    gRPC health bind address (e.g. ":50051")
//	-d string    PostgreSQL DSN
//	-s string    JWT HMAC secret key
//	-t duration  access token validity (e.g. "24h")
//	-k int       bcrypt cost
//	-l string    log level (debug, info, warn, error)
//
// Unknown flags are filtered out first so other components (the JSON
// config loader, CLI subcommands) can share the same command line.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "access token validity")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(flagx.FilterArgs(args, ServerFlags))
}
