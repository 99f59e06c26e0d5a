package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/render"
)

// reportCommand creates the report command group.
func (c *CLI) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble, store and manage full reports",
	}

	cmd.AddCommand(c.reportCreateCommand())
	cmd.AddCommand(c.reportListCommand())
	cmd.AddCommand(c.reportShowCommand())
	cmd.AddCommand(c.reportDeleteCommand())

	return cmd
}

// reportCreateCommand creates the "report create" subcommand.
func (c *CLI) reportCreateCommand() *cobra.Command {
	var (
		flags    inputFlags
		title    string
		output   string
		storeDir string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "create [heating|solar]",
		Short: "Compute a scenario and assemble a multi-page report",
		Long: `Compute a scenario and assemble a multi-page report.

The report bundles the input summary, headline results, the composite and
sensitivity charts, the regional ranking and a short narrative. It is stored
locally and can also be exported as JSON with --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(parseCalculator(args))
			opts.Title = title
			return c.runReportCreate(cmd.Context(), opts, output, storeDir, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also export the report as JSON to this path")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "report store directory (default ~/.config/hashheat/reports)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runReportCreate(ctx context.Context, opts pipeline.Options, output, storeDir string, noCache bool) error {
	if output != "" {
		if err := errors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Assembling report...")
	spinner.Start()

	comp, _, err := runner.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Report assembly failed")
		return err
	}
	doc, err := pipeline.BuildDocument(comp, opts)
	if err != nil {
		spinner.StopWithError("Report assembly failed")
		return err
	}
	spinner.Stop()

	st, err := newStore(storeDir)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer st.Close(ctx)
	if err := st.Save(ctx, doc); err != nil {
		return err
	}

	printSuccess("Created report %q", doc.Title)
	printKeyValue("id", doc.ID.String())
	printKeyValue("pages", fmt.Sprintf("%d", len(doc.Pages)))

	if output != "" {
		data, err := render.DocumentJSON(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
	}

	printNextStep("Inspect it later", fmt.Sprintf("%s report show %s", appName, doc.ID))
	return nil
}

// reportListCommand creates the "report list" subcommand.
func (c *CLI) reportListCommand() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(storeDir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer st.Close(cmd.Context())

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No stored reports")
				return nil
			}
			for _, s := range summaries {
				fmt.Println(StyleValue.Render(s.ID.String()) + "  " +
					StyleDim.Render(s.CreatedAt.Format("2006-01-02 15:04")) + "  " +
					s.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeDir, "store-dir", "", "report store directory")
	return cmd
}

// reportShowCommand creates the "report show" subcommand.
func (c *CLI) reportShowCommand() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse report id: %w", err)
			}
			st, err := newStore(storeDir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer st.Close(cmd.Context())

			doc, err := st.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			data, err := render.DocumentJSON(doc)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&storeDir, "store-dir", "", "report store directory")
	return cmd
}

// reportDeleteCommand creates the "report delete" subcommand.
func (c *CLI) reportDeleteCommand() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse report id: %w", err)
			}
			st, err := newStore(storeDir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted report %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeDir, "store-dir", "", "report store directory")
	return cmd
}
