package config

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// DefaultPath is where the relay looks for its directive file when no
// --config flag is given.
const DefaultPath = "/etc/udp-relay.conf"

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type Config struct {
	// Directive file settings.
	Listen     string
	Upstreams  []string
	HandleGELF bool
	SendBuffer int
	RecvBuffer int
	Listeners  int

	// Process settings from the environment.
	Environment    string
	LogLevel       string
	MetricsAddress string
}

// Load reads the directive file at path, layers process settings from the
// environment and validates the result.
func Load(path string) (*Config, error) {
	viper.SetDefault("environment", EnvDev)
	viper.SetDefault("log_level", LogLevelInfo)
	viper.SetDefault("metrics_address", "")

	viper.AutomaticEnv()

	cfg := &Config{
		Listeners:      1,
		Environment:    viper.GetString("environment"),
		LogLevel:       viper.GetString("log_level"),
		MetricsAddress: viper.GetString("metrics_address"),
	}

	if err := cfg.parseFile(path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseFile reads the whitespace-separated directive format:
//
//	listen ipaddr:port       Listening address, exactly one
//	upstream ipaddr:port     Upstream address, one or more; order is the
//	                         round robin order
//	handle-gelf              Enables chunked GELF affinity routing
//	send-buffer #            Override the socket send buffer size
//	recv-buffer #            Override the socket recv buffer size
//	listeners #              Number of SO_REUSEPORT listening sockets
func (c *Config) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open config file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	ln := 0

	for scanner.Scan() {
		ln++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		directive, args := fields[0], fields[1:]

		switch directive {
		case "listen":
			if len(args) != 1 {
				return directiveError(ln, "listen requires exactly one address")
			}
			if c.Listen != "" {
				return directiveError(ln, "duplicate listen directive")
			}
			c.Listen = args[0]

		case "upstream":
			if len(args) != 1 {
				return directiveError(ln, "upstream requires exactly one address")
			}
			c.Upstreams = append(c.Upstreams, args[0])

		case "handle-gelf":
			c.HandleGELF = true

		case "send-buffer":
			size, err := parseSize(args)
			if err != nil {
				return directiveError(ln, "invalid send buffer value")
			}
			c.SendBuffer = size

		case "recv-buffer":
			size, err := parseSize(args)
			if err != nil {
				return directiveError(ln, "invalid recv buffer value")
			}
			c.RecvBuffer = size

		case "listeners":
			count, err := parseSize(args)
			if err != nil {
				return directiveError(ln, "invalid listeners value")
			}
			c.Listeners = count

		default:
			return fmt.Errorf("unknown keyword %q at line %d", directive, ln)
		}
	}

	return scanner.Err()
}

func directiveError(line int, msg string) error {
	return fmt.Errorf("%s at line %d", msg, line)
}

// parseSize parses a single positive integer argument. Base prefixes
// (0x, 0) are accepted.
func parseSize(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one value")
	}

	n, err := strconv.ParseUint(args[0], 0, 31)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("value must be positive")
	}

	return int(n), nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Listen,
			validation.Required.Error("no listen address defined"),
			validation.By(validateUDPAddr),
		),
		validation.Field(&c.Upstreams,
			validation.Required.Error("no upstream addresses defined"),
			validation.Length(1, 0),
			validation.Each(validation.By(validateUDPAddr)),
		),
		validation.Field(&c.Listeners,
			validation.Min(1),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.MetricsAddress,
			validation.By(validateOptionalHostPort),
		),
	)
}

func validateUDPAddr(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in ipv4:port format")
	}

	// is rules treat an empty string as valid, so check it explicitly.
	if host == "" {
		return validation.NewError("validation_invalid_host", "host cannot be empty")
	}

	if err := is.IPv4.Validate(host); err != nil {
		return validation.NewError("validation_invalid_host", "must be an IPv4 address")
	}

	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return validation.NewError("validation_invalid_port", "port must be 0-65535")
	}

	return nil
}

func validateOptionalHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
