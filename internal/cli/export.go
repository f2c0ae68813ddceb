package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ExportOptions struct {
	GlobalOptions

	Format    string
	OutputDir string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Format:        "csv",
		OutputDir:     ".",
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:   "export ASSET_ID",
		Short: "Download the qc review history of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseAssetID(args[0]); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Format, "format", "f", o.Format, "Report format: csv or xlsx")
	fs.StringVarP(&o.OutputDir, "output-dir", "d", o.OutputDir, "Directory the report is written to")
}

func (o *ExportOptions) Run(ctx context.Context, w io.Writer, args []string) error {
	id, _ := parseAssetID(args[0])

	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	export, err := c.ExportReviews(ctx, id, o.Format)
	if err != nil {
		return fmt.Errorf("exporting reviews of asset %d: %w", id, err)
	}

	path := filepath.Join(o.OutputDir, filepath.Base(export.Filename))
	if err := os.WriteFile(path, export.Content, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", path, len(export.Content))
	return nil
}
