// Package config loads the entity agent configuration file.
//
// The file is plain text, one `key = value` entry per line. Exactly ten dotted
// keys are recognized; they describe the entity identity, its key material
// paths, and the auth/entity-server addressing. Unknown keys and lines without
// a delimiter are skipped. A recognized key whose line carries no value fails
// the load with a ParseError.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Field capacities, in bytes. The agent wire handshake carries these fields
// in fixed-size slots, so values are bounded at load time. Truncation is
// byte-oriented and may split a multi-byte rune at the boundary, matching
// the fixed-slot layout.
const (
	capShort = 32  // name, purpose, number key, ports, protocol
	capAddr  = 64  // IP addresses
	capPath  = 256 // key file paths
)

// Config is the entity configuration record. All fields hold the verbatim
// text token from the file; absent keys leave the empty string. Use Validate
// to check addresses, ports and protocol semantically.
type Config struct {
	// Name is the entity's registered name at the auth server.
	Name string
	// Purpose describes what the entity requests sessions for.
	Purpose string
	// NumKey is the number of session keys to request, kept as text.
	NumKey string

	// AuthPubkeyPath points to the auth server's public key file.
	AuthPubkeyPath string
	// EntityPrivkeyPath points to the entity's own private key file.
	EntityPrivkeyPath string

	AuthIPAddress string `validate:"omitempty,ip"`
	AuthPort      string `validate:"omitempty,port"`

	ServerIPAddress string `validate:"omitempty,ip"`
	ServerPort      string `validate:"omitempty,port"`

	// NetworkProtocol selects the transport the agent will use.
	NetworkProtocol string `validate:"omitempty,oneof=TCP UDP"`
}

// ParseError reports a recognized key whose line carries no value token.
type ParseError struct {
	Key  string
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("missing value for %q on line %d", e.Key, e.Line)
}

// LoadReport collects per-load diagnostics.
type LoadReport struct {
	// KeysSeen counts recognized key occurrences, repeats included.
	KeysSeen int
	// Truncated lists keys whose values exceeded the field capacity.
	Truncated []string
}

// Option adjusts how Load and Watch operate.
type Option func(*loadOptions)

type loadOptions struct {
	logger *zap.Logger
	report *LoadReport
}

// WithLogger routes per-key progress and truncation warnings to logger.
// Without it loading is silent.
func WithLogger(l *zap.Logger) Option {
	return func(o *loadOptions) { o.logger = l }
}

// WithReport fills r with diagnostics from the load.
func WithReport(r *LoadReport) Option {
	return func(o *loadOptions) { o.report = r }
}

// Load reads the entity configuration file at path and returns the populated
// record. When a key repeats, the last occurrence wins. Only the first
// key/value pair on a line is processed. On any error the record is nil.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		key, rest, found := strings.Cut(sc.Text(), "=")
		if !found {
			// No delimiter: blank line or free text.
			continue
		}
		name := strings.TrimSpace(key)
		field := KeyField(name)
		if field == FieldUnknown {
			continue
		}
		tokens := strings.Fields(rest)
		if len(tokens) == 0 {
			return nil, &ParseError{Key: name, Line: line}
		}
		value := tokens[0]

		dst, capacity := cfg.slot(field)
		if len(value) > capacity {
			o.logger.Warn("config value truncated",
				zap.String("key", name),
				zap.Int("len", len(value)),
				zap.Int("cap", capacity))
			value = value[:capacity]
			if o.report != nil {
				o.report.Truncated = append(o.report.Truncated, name)
			}
		}
		*dst = value
		if o.report != nil {
			o.report.KeysSeen++
		}
		o.logger.Debug("config key", zap.String("key", name), zap.String("value", value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string, opts ...Option) *Config {
	cfg, err := Load(path, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// slot returns the storage location and capacity for a record field.
func (c *Config) slot(f Field) (*string, int) {
	switch f {
	case FieldName:
		return &c.Name, capShort
	case FieldPurpose:
		return &c.Purpose, capShort
	case FieldNumKey:
		return &c.NumKey, capShort
	case FieldAuthPubkeyPath:
		return &c.AuthPubkeyPath, capPath
	case FieldEntityPrivkeyPath:
		return &c.EntityPrivkeyPath, capPath
	case FieldAuthIPAddress:
		return &c.AuthIPAddress, capAddr
	case FieldAuthPort:
		return &c.AuthPort, capShort
	case FieldServerIPAddress:
		return &c.ServerIPAddress, capAddr
	case FieldServerPort:
		return &c.ServerPort, capShort
	case FieldNetworkProtocol:
		return &c.NetworkProtocol, capShort
	}
	return nil, 0
}
