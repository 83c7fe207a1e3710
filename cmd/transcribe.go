package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khlin/tabgen/engine"
	"github.com/khlin/tabgen/midi"
	"github.com/khlin/tabgen/model"
)

var (
	outputType string
	keyOffset  int
	title      string
)

func init() {
	transcribeCmd.Flags().StringVarP(&outputType, "type", "t", string(model.OutputChordSheet),
		"output format: chord_sheet, fingerstyle_tab or piano_sheet")
	transcribeCmd.Flags().IntVarP(&keyOffset, "key-offset", "k", 0,
		"transpose by this many semitones (recommended -6..6)")
	transcribeCmd.Flags().StringVar(&title, "title", "", "override the detected title")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file.mid>",
	Short: "Renders a MIDI file as text notation",
	Long:  `Renders a MIDI file as text notation on stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		perf, err := midi.ReadPerformance(args[0])
		cobra.CheckErr(err)

		res, err := engine.Transcribe(perf, engine.Options{
			OutputType: model.OutputType(outputType),
			KeyOffset:  keyOffset,
			Title:      title,
		})
		cobra.CheckErr(err)

		fmt.Print(res.Content)
	},
}
