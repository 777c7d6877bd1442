package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oxbow-hq/ganymede/pkg/cli"
	"oxbow-hq/ganymede/pkg/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage models on the server",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		models, err := client.ListModelDetails(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tFAMILY\tPARAMS\tQUANT")
		for _, m := range models {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				m.Name,
				ollama.FormatModelSize(m.Size),
				m.Details.Family,
				m.Details.ParameterSize,
				m.Details.QuantizationLevel,
			)
		}
		return w.Flush()
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]
		if !ollama.ValidateModelName(model) {
			return fmt.Errorf("invalid model name %q", model)
		}

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

		ch, err := client.PullModel(ctx, model)
		if err != nil {
			return err
		}

		bar := cli.NewProgress(os.Stdout)
		for progress := range ch {
			if progress.Err != nil {
				bar.Fail(progress.Err)
				return progress.Err
			}
			bar.Update(progress.Status, progress.Total, progress.Completed)
		}
		bar.Finish()
		return nil
	},
}

var modelsShowCmd = &cobra.Command{
	Use:   "show <model>",
	Short: "Show details for one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		show, err := client.ShowModel(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Family: %s\n", show.Details.Family)
		fmt.Printf("Parameters: %s\n", show.Details.ParameterSize)
		fmt.Printf("Quantization: %s\n", show.Details.QuantizationLevel)
		if est := ollama.EstimateMemoryUsage(show.Details.ParameterSize, show.Details.QuantizationLevel); est > 0 {
			fmt.Printf("Estimated memory: %s\n", ollama.FormatModelSize(est))
		}
		if show.Template != "" {
			fmt.Printf("Template:\n%s\n", show.Template)
		}
		if verbose && show.Modelfile != "" {
			fmt.Printf("Modelfile:\n%s\n", show.Modelfile)
		}
		return nil
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <model>",
	Short: "Remove a model from the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if err := client.DeleteModel(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var modelsPsCmd = &cobra.Command{
	Use:   "ps",
	Short: "List models currently loaded in server memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		running, err := client.ListRunning(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tVRAM\tEXPIRES")
		for _, m := range running {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				m.Name,
				ollama.FormatModelSize(m.Size),
				ollama.FormatModelSize(m.SizeVRAM),
				m.ExpiresAt,
			)
		}
		return w.Flush()
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsPullCmd, modelsShowCmd, modelsDeleteCmd, modelsPsCmd)
	rootCmd.AddCommand(modelsCmd)
}
