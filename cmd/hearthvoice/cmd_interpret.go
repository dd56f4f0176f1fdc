package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hearthvoice/internal/command"
	"hearthvoice/internal/pipeline"
)

var interpretSpeaker string

var interpretCmd = &cobra.Command{
	Use:   "interpret [speech]",
	Short: "Interpret a single speech command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speaker := command.Speaker(interpretSpeaker)
		if !speaker.Valid() {
			return fmt.Errorf("unknown speaker %q (want parent, child, or teen)", interpretSpeaker)
		}

		p := pipeline.New(pipelineConfig(), nil)
		pred := p.Run(args[0], speaker)

		out, err := json.MarshalIndent(pred, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	interpretCmd.Flags().StringVar(&interpretSpeaker, "speaker", "parent", "speaker context (parent|child|teen)")
}
