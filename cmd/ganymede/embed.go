package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var embedJSON bool

var embedCmd = &cobra.Command{
	Use:   "embed <model> <text...>",
	Short: "Compute embedding vectors for one or more texts",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]
		texts := args[1:]

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

		vectors, err := client.Embeddings(ctx, model, texts)
		if err != nil {
			return err
		}

		if embedJSON {
			return json.NewEncoder(os.Stdout).Encode(vectors)
		}
		for i, v := range vectors {
			fmt.Printf("[%d] %d dimensions\n", i, len(v))
		}
		return nil
	},
}

func init() {
	embedCmd.Flags().BoolVar(&embedJSON, "json", false, "print raw vectors as JSON")
	rootCmd.AddCommand(embedCmd)
}
