// Package config holds the deployment owned settings: addresses, detector
// parameters, injection parameters and logging.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/spf13/viper"

	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
)

// Named generator polynomials.
var Polynomials = map[string]uint64{
	"crc8":  0x107,
	"crc16": 0x11021,
	"crc32": 0x104C11DB7,
}

type Config struct {
	RelayAddr        string
	ReceiverAddr     string
	APIAddr          string
	Protocols        []string
	HandshakeTimeout time.Duration
	IdleTimeout      time.Duration

	CRCPolynomial uint64
	MatrixRows    int
	MatrixCols    int

	BitFlips      int
	MultipleFlips int
	BurstLength   int
	Seed          int64

	LogDir      string
	LogLevel    string
	LogFormat   string
	FileLogging bool
}

func init() {
	SetDefaults(viper.GetViper())
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("RelayAddr", "localhost:5001")
	v.SetDefault("ReceiverAddr", "localhost:5002")
	v.SetDefault("APIAddr", ":8080")
	v.SetDefault("Protocols", []string{"parcheck"})
	v.SetDefault("HandshakeTimeout", 2*time.Second)
	v.SetDefault("IdleTimeout", 300*time.Second)
	v.SetDefault("CRCPolynomial", detection.DefaultPolynomial)
	v.SetDefault("MatrixRows", detection.DefaultRows)
	v.SetDefault("MatrixCols", detection.DefaultCols)
	v.SetDefault("BitFlips", injection.DefaultBitFlips)
	v.SetDefault("MultipleFlips", injection.DefaultMultipleFlips)
	v.SetDefault("BurstLength", injection.DefaultBurstLength)
	v.SetDefault("Seed", 0)
	v.SetDefault("LogDir", "logs")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("FileLogging", true)
}

// Load reads an optional config file and PARCHECK_* environment variables
// into the global viper instance.
func Load(file string) (*Config, error) {
	v := viper.GetViper()
	v.SetEnvPrefix("parcheck")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &config, nil
}

// Default returns the configuration with every default applied.
func Default() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	return FromViper(v)
}

// DetectionOptions maps the detector parameters onto detection.Options.
func (c *Config) DetectionOptions() (detection.Options, error) {
	var opts detection.Options
	if err := copier.Copy(&opts, c); err != nil {
		return detection.Options{}, fmt.Errorf("mapping detection options: %w", err)
	}
	return opts, nil
}

// InjectionParams maps the corruption parameters onto injection.Params.
// Zero values are kept: BitFlips 0 disables BIT_FLIP.
func (c *Config) InjectionParams() (injection.Params, error) {
	var params injection.Params
	if err := copier.Copy(&params, c); err != nil {
		return injection.Params{}, fmt.Errorf("mapping injection params: %w", err)
	}
	return params, nil
}

// ParsePolynomial accepts a preset name (crc8, crc16, crc32) or a number
// in any base strconv understands, e.g. 0x107.
func ParsePolynomial(s string) (uint64, error) {
	if poly, ok := Polynomials[strings.ToLower(s)]; ok {
		return poly, nil
	}
	poly, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", detection.ErrInvalidPolynomial, s)
	}
	return poly, nil
}
