package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"oxbow-hq/ganymede/pkg/ollama"
)

var (
	chatSystem      string
	chatTemperature float64
	chatTopP        float64
	chatMaxTokens   int
	chatNoStream    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <model> <message...>",
	Short: "Send a chat message to a model",
	Long: `Send a chat message to a model and print the reply.

Output streams token by token unless --no-stream is set.`,
	Args: cobra.MinimumNArgs(2),
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

		var messages []ollama.ChatMessage
		if chatSystem != "" {
			messages = append(messages, ollama.ChatMessage{Role: ollama.RoleSystem, Content: chatSystem})
		}
		messages = append(messages, ollama.ChatMessage{Role: ollama.RoleUser, Content: prompt})

		params := chatParams(cmd)

		stream := cfg.DefaultStream && !chatNoStream
		if !stream {
			resp, err := client.Chat(ctx, model, messages, params)
			if err != nil {
				return err
			}
			fmt.Println(resp.Content)
			printUsage(resp)
			return nil
		}

		ch, err := client.StreamChat(ctx, model, messages, params)
		if err != nil {
			return err
		}
		return drainStream(ch)
	},
}

// chatParams collects only the explicitly set sampling flags so the
// configured defaults govern everything else.
func chatParams(cmd *cobra.Command) *ollama.Parameters {
	params := &ollama.Parameters{}
	if cmd.Flags().Changed("temperature") {
		params.Temperature = ollama.Ptr(chatTemperature)
	}
	if cmd.Flags().Changed("top-p") {
		params.TopP = ollama.Ptr(chatTopP)
	}
	if cmd.Flags().Changed("max-tokens") {
		params.MaxTokens = ollama.Ptr(chatMaxTokens)
	}
	return params
}

// drainStream prints chunks as they arrive and reports the generation rate
// from the final chunk's metadata.
func drainStream(ch <-chan *ollama.StreamChunk) error {
	for chunk := range ch {
		if chunk.Err != nil {
			fmt.Println()
			return chunk.Err
		}
		fmt.Print(chunk.Content)
		if chunk.Final {
			fmt.Println()
			if verbose {
				evalCount, _ := chunk.Metadata["eval_count"].(int)
				evalDuration, _ := chunk.Metadata["eval_duration"].(int64)
				if rate := ollama.TokensPerSecond(evalCount, evalDuration); rate > 0 {
					fmt.Fprintf(os.Stderr, "(%d tokens, %.1f tok/s)\n", evalCount, rate)
				}
			}
		}
	}
	return nil
}

func printUsage(resp *ollama.Response) {
	if verbose && resp.Usage.TotalTokens > 0 {
		fmt.Fprintf(os.Stderr, "(%d prompt + %d completion tokens)\n",
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
}

func init() {
	chatCmd.Flags().StringVarP(&chatSystem, "system", "s", "", "system prompt")
	chatCmd.Flags().Float64VarP(&chatTemperature, "temperature", "t", 0, "sampling temperature")
	chatCmd.Flags().Float64Var(&chatTopP, "top-p", 0, "nucleus sampling value")
	chatCmd.Flags().IntVar(&chatMaxTokens, "max-tokens", 0, "maximum tokens to generate")
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "wait for the complete reply")
	rootCmd.AddCommand(chatCmd)
}
