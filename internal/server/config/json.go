package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cardtrack/internal/flagx"
	"github.com/dmitrijs2005/cardtrack/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "24h" style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity"`
	BcryptCost            int             `json:"bcrypt_cost"`
	LogLevel              string          `json:"log_level"`
	LoginRateLimit        float64         `json:"login_rate_limit"`
	LoginRateBurst        int             `json:"login_rate_burst"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	TrustProxy            *bool           `json:"trust_proxy"`
}

// parseJson overlays values from the file named by -c / -config in args.
// Keys missing from the file leave the current values alone. Without the
// flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LoginRateLimit != 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	if c.LoginRateBurst != 0 {
		config.LoginRateBurst = c.LoginRateBurst
	}
	if c.TrustProxy != nil {
		config.TrustProxy = *c.TrustProxy
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
