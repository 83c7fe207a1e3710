package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/key"
	"github.com/khlin/tabgen/midi"
	"github.com/khlin/tabgen/model"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Dumps the quantized grid of a MIDI file",
	Long:  `Dumps the quantized grid of a MIDI file: one row per slot with melody pitch, bass pitch and chord starts.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		perf, err := midi.ReadPerformance(args[0])
		cobra.CheckErr(err)
		inspect(perf)
	},
}

func inspect(perf model.Performance) {
	fmt.Println(midi.Summary(perf))

	g, anomalies := grid.Quantize(perf, model.NewBeatGrid(perf.TempoBPM))
	chordAt := make(map[int]grid.SlotChord, len(g.Chords))
	for _, c := range g.Chords {
		chordAt[c.Slot] = c
	}

	per := g.SlotsPerBar()
	for i, slot := range g.Slots {
		if i%per == 0 {
			fmt.Printf("-- bar %d --\n", i/per+1)
		}
		fmt.Printf("%4d  melody=%-10s bass=%-10s", i,
			slotNoteString(slot.Melody), slotNoteString(slot.Bass))
		if c, ok := chordAt[i]; ok {
			fmt.Printf(" chord=%s/%v", key.NoteName(c.Root), c.Quality)
		}
		fmt.Println()
	}
	for _, a := range anomalies {
		fmt.Printf("anomaly: %v\n", a)
	}
}

func slotNoteString(n *grid.SlotNote) string {
	switch {
	case n == nil:
		return "."
	case n.Sustain:
		return fmt.Sprintf("(%d)", n.Pitch)
	default:
		return fmt.Sprintf("%d", n.Pitch)
	}
}
