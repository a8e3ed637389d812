package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cuebox/config"
	"cuebox/cue"
	"cuebox/engine"
	"cuebox/logger"
	"cuebox/playback"
	"cuebox/show"
	"cuebox/ui"

	"github.com/gofrs/flock"
	"github.com/gopxl/beep/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cuebox [script]",
	Short: "A terminal cue player for live show sound",
	Long: `Cuebox plays the sound for a live show from a YAML cue script.

The operator steps through the cue list in a terminal UI and fires each cue
with the space bar. Cues play files or playlists, fade running cues and stop
them. Everything a cue needs is loaded before it is fired so the sound starts
the moment the key is pressed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("sample-rate", 44100, "output sample rate in Hz")

	// Local flags for the show command
	rootCmd.Flags().Duration("buffer", 100*time.Millisecond, "output buffer length")
	rootCmd.Flags().Duration("tick", 100*time.Millisecond, "UI refresh interval")
	rootCmd.Flags().Int("log-lines", 200, "log lines kept for the log pane")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-format", "text", "log file format (text, json)")
	rootCmd.Flags().String("log-file", "", "also write logs to this file")
	rootCmd.Flags().String("lock-file", "", "lock file guarding the audio device")

	// Bind flags to viper
	viper.BindPFlag("audio.sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag("audio.buffer", rootCmd.Flags().Lookup("buffer"))
	viper.BindPFlag("ui.tick", rootCmd.Flags().Lookup("tick"))
	viper.BindPFlag("ui.log_lines", rootCmd.Flags().Lookup("log-lines"))
	viper.BindPFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.Flags().Lookup("log-format"))
	viper.BindPFlag("logging.file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("lock_file", rootCmd.Flags().Lookup("lock-file"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// loadConfig loads and validates the configuration, letting a positional
// argument override the script path
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.Script = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadScript reads and validates the cue script
func loadScript(path string) (*cue.Script, error) {
	script, err := cue.Load(path)
	if err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("script validation failed:\n%w", err)
	}
	return script, nil
}

// runShow plays a script until the operator quits
func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if err := logger.Setup(cfg.Logging.Level, "text"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	script, err := loadScript(cfg.Script)
	if err != nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		return errors.New("cuebox needs an interactive terminal, use 'cuebox validate' to check a script")
	}

	// From here on the terminal belongs to the UI
	history := logger.NewHistory(cfg.UI.LogLines)
	var logFile io.Writer
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}
	if err := logger.SetupHistory(cfg.Logging.Level, cfg.Logging.Format, history, logFile); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	lock := flock.New(cfg.LockFile)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another cuebox is already running (lock %s)", cfg.LockFile)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release lock", slog.Any("error", err))
		}
	}()

	device, err := playback.NewDevice(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Buffer)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	device.SetMaster(script.Master)

	s := show.New(script, engine.New(device))
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("Failed to close audio device", slog.Any("error", err))
		}
	}()

	slog.Info("Show loaded",
		slog.String("script", cfg.Script),
		slog.Int("cues", len(script.Cuelist)),
		slog.Int("master", int(script.Master)))

	return ui.Run(s, history, cfg.UI.Tick)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
