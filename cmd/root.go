package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "tabgen",
	Short: "Turns detected performances into playable text notation",
	Long:  `tabgen converts a MIDI rendition of a detected performance into a chord sheet, a fingerstyle tab or a numbered piano sheet.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// initLogger routes the stdlib log package through the same slog handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
