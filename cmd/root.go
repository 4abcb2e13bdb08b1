package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harlequix/parcheck/config"
	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
	log "github.com/harlequix/parcheck/log"
	"github.com/harlequix/parcheck/transport"
)

var (
	cfgFile     string
	profileMode string
	polynomial  string
	conf        *config.Config
	detectOpts  detection.Options
	injectOpts  injection.Params
	profiler    interface{ Stop() }
	logger      = log.NewLogger("cmd")
)

var rootCmd = &cobra.Command{
	Use:   "parcheck",
	Short: "Detect transmission errors on a corrupting channel",
	Long: `parcheck sends messages together with error detection control info
(parity, 2D parity, CRC, Hamming, Internet checksum) through a relay that
damages the data on purpose, and lets the receiver check whether the
damage is detected.`,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	flags.StringVar(&polynomial, "polynomial", "", "CRC generator: crc8, crc16, crc32 or a number such as 0x107")
	flags.String("log-level", "info", "log level")
	flags.Int("rows", detection.DefaultRows, "rows of the 2D parity matrix")
	flags.Int("cols", detection.DefaultCols, "columns of the 2D parity matrix")
	viper.BindPFlag("LogLevel", flags.Lookup("log-level"))
	viper.BindPFlag("MatrixRows", flags.Lookup("rows"))
	viper.BindPFlag("MatrixCols", flags.Lookup("cols"))
}

func setup(cmd *cobra.Command, args []string) error {
	switch profileMode {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}
	if polynomial != "" {
		poly, err := config.ParsePolynomial(polynomial)
		if err != nil {
			return err
		}
		viper.Set("CRCPolynomial", poly)
	}
	var err error
	conf, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if detectOpts, err = conf.DetectionOptions(); err != nil {
		return err
	}
	if injectOpts, err = conf.InjectionParams(); err != nil {
		return err
	}
	if err := log.Configure(conf.LogLevel, conf.LogFormat); err != nil {
		return err
	}
	if conf.FileLogging && needsFileLog(cmd) {
		path, err := log.AddFileHook(log.Base(), conf.LogDir, cmd.Name())
		if err != nil {
			return err
		}
		logger.WithField("file", path).Debug("file logging enabled")
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if profiler != nil {
		profiler.Stop()
	}
}

// needsFileLog is true for the long running roles.
func needsFileLog(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "send", "relay", "receive", "serve":
		return true
	}
	return false
}

func transportConfig() *transport.Config {
	return &transport.Config{
		Protocols:        conf.Protocols,
		HandshakeTimeout: conf.HandshakeTimeout,
		IdleTimeout:      conf.IdleTimeout,
	}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
