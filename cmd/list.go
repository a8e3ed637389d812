package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"cuebox/cue"

	"github.com/spf13/cobra"
)

// listCmd prints the cue list of a script
var listCmd = &cobra.Command{
	Use:   "list [script]",
	Short: "Print the cue list of a script",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		script, err := cue.Load(cfg.Script)
		if err != nil {
			return err
		}

		headers := []string{"#", "Label", "Action", "Details", "Description"}
		rows := make([][]string, 0, len(script.Cuelist))
		for i, c := range script.Cuelist {
			kind := ""
			if c.Action != nil {
				kind = c.Action.Kind()
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), c.Label, kind, describe(c.Action), c.Description})
		}

		fmt.Println(renderTable(headers, rows, []columnAlignment{alignRight}))
		fmt.Printf("Master volume: %d%%\n", script.Master)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// describe summarises the settings of an action in one line
func describe(a cue.Action) string {
	var parts []string
	volume := func(v *uint8) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("volume %d%%", *v))
		}
	}

	switch a := a.(type) {
	case cue.PlaybackCue:
		parts = append(parts, a.File)
		volume(a.Volume)
		if a.Repeat {
			parts = append(parts, "repeat")
		}
		if a.Duration != nil {
			parts = append(parts, "for "+a.Duration.Duration().String())
		}
		if a.FadeIn != nil {
			parts = append(parts, "fade in "+a.FadeIn.Duration().String())
		}
		if a.FadeOut != nil {
			parts = append(parts, "fade out "+a.FadeOut.Duration().String())
		}
		if a.Cache {
			parts = append(parts, "cached")
		}
	case cue.PlaylistCue:
		if a.Folder != "" {
			parts = append(parts, a.Folder)
		}
		if len(a.Files) > 0 {
			parts = append(parts, fmt.Sprintf("%d files", len(a.Files)))
		}
		volume(a.Volume)
		if a.Shuffle {
			parts = append(parts, "shuffle")
		}
		if a.Repeat {
			parts = append(parts, "repeat")
		}
		if a.Crossfade != nil {
			parts = append(parts, "crossfade "+a.Crossfade.Duration().String())
		}
	case cue.FadeCue:
		parts = append(parts, fmt.Sprintf("%s to %d%% over %s", a.Target, a.Volume, a.Duration.Duration()))
	case cue.StopCue:
		parts = append(parts, a.Target)
	}

	return strings.Join(parts, ", ")
}
