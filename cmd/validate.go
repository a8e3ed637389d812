package cmd

import (
	"fmt"
	"log/slog"

	"cuebox/logger"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"
)

var prepareCues bool

// validateCmd checks a script without touching the audio device
var validateCmd = &cobra.Command{
	Use:   "validate [script]",
	Short: "Validate a cue script",
	Long: `Validate a cue script: labels must be unique, referenced files and folders
must exist and fade and stop targets must name a cue. With --prepare every cue
is also decoded and built as it would be before being fired.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Setup("info", "text"); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		script, err := loadScript(cfg.Script)
		if err != nil {
			slog.Error("Script validation failed", slog.String("script", cfg.Script))
			return err
		}

		if prepareCues {
			rate := beep.SampleRate(cfg.Audio.SampleRate)
			failed := 0
			for _, c := range script.Cuelist {
				if err := c.Check(rate); err != nil {
					slog.Error("Cue failed to prepare", slog.String("label", c.Label), slog.Any("error", err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d cues failed to prepare", failed, len(script.Cuelist))
			}
		}

		slog.Info("Script is valid", slog.String("script", cfg.Script), slog.Int("cues", len(script.Cuelist)))
		fmt.Println("✅ Script is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&prepareCues, "prepare", "p", false, "decode and prepare every cue")
}
