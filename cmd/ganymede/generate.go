package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var generateNoStream bool

var generateCmd = &cobra.Command{
	Use:   "generate <model> <prompt...>",
	Short: "Run a single-prompt completion",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]
		prompt := strings.Join(args[1:], " ")

		ctx, stop := commandContext()
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		stream := cfg.DefaultStream && !generateNoStream
		if !stream {
			resp, err := client.Generate(ctx, model, prompt, nil)
			if err != nil {
				return err
			}
			fmt.Println(resp.Content)
			printUsage(resp)
			return nil
		}

		ch, err := client.StreamGenerate(ctx, model, prompt, nil)
		if err != nil {
			return err
		}
		return drainStream(ch)
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoStream, "no-stream", false, "wait for the complete reply")
	rootCmd.AddCommand(generateCmd)
}
