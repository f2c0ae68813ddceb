package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	api "github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewCmdCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a resource",
	}
	cmd.AddCommand(NewCmdCreateAsset())
	return cmd
}

type CreateAssetOptions struct {
	GlobalOptions

	Title        string
	AssetType    string
	ServiceID    uint
	SubServiceID uint
	Output       string
}

func DefaultCreateAssetOptions() *CreateAssetOptions {
	return &CreateAssetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreateAsset() *cobra.Command {
	o := DefaultCreateAssetOptions()
	cmd := &cobra.Command{
		Use:   "asset --title TITLE",
		Short: "Create an asset in the Add stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CreateAssetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Title, "title", o.Title, "Title of the asset")
	fs.StringVar(&o.AssetType, "type", o.AssetType, "Asset type, e.g. banner or blog")
	fs.UintVar(&o.ServiceID, "service-id", o.ServiceID, "Service the asset belongs to")
	fs.UintVar(&o.SubServiceID, "sub-service-id", o.SubServiceID, "Sub service the asset belongs to")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
}

func (o *CreateAssetOptions) Validate(args []string) error {
	if o.Title == "" {
		return errors.New("--title is required")
	}
	return validateOutput(o.Output)
}

func (o *CreateAssetOptions) Run(ctx context.Context, w io.Writer) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	form := api.AssetCreate{Title: o.Title, AssetType: o.AssetType}
	if o.ServiceID > 0 {
		form.ServiceId = &o.ServiceID
	}
	if o.SubServiceID > 0 {
		form.SubServiceId = &o.SubServiceID
	}

	asset, err := c.CreateAsset(ctx, form)
	if err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}
	return printAsset(w, o.Output, asset)
}
