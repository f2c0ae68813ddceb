package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	api "github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GetOptions struct {
	GlobalOptions

	Output        string
	WorkflowStage string
	QcStatus      string
	Limit         int
	Offset        int
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (assets | asset/ID | reviews/ASSET_ID)",
		Short: "Display one or many resources.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.WorkflowStage, "stage", o.WorkflowStage, "Only list assets in this workflow stage")
	fs.StringVar(&o.QcStatus, "qc-status", o.QcStatus, "Only list assets with this qc status")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Maximum number of assets to list")
	fs.IntVar(&o.Offset, "offset", o.Offset, "Number of assets to skip")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *GetOptions) Run(ctx context.Context, w io.Writer, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	switch {
	case kind == AssetKind && id > 0:
		asset, err := c.GetAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("reading %s/%d: %w", kind, id, err)
		}
		return o.print(w, asset, func(tw *tabwriter.Writer) { printAssetsTable(tw, *asset) })
	case kind == AssetKind:
		assets, err := c.ListAssets(ctx, o.listParams())
		if err != nil {
			return fmt.Errorf("listing %s: %w", plural(kind), err)
		}
		return o.print(w, assets, func(tw *tabwriter.Writer) { printAssetsTable(tw, assets...) })
	default:
		reviews, err := c.ListReviews(ctx, id)
		if err != nil {
			return fmt.Errorf("listing %s of asset %d: %w", plural(kind), id, err)
		}
		return o.print(w, reviews, func(tw *tabwriter.Writer) { printReviewsTable(tw, reviews...) })
	}
}

func (o *GetOptions) listParams() *api.ListAssetsParams {
	params := &api.ListAssetsParams{}
	if o.WorkflowStage != "" {
		params.WorkflowStage = &o.WorkflowStage
	}
	if o.QcStatus != "" {
		params.QcStatus = &o.QcStatus
	}
	if o.Limit > 0 {
		params.Limit = &o.Limit
	}
	if o.Offset > 0 {
		params.Offset = &o.Offset
	}
	return params
}

func (o *GetOptions) print(w io.Writer, v any, table func(*tabwriter.Writer)) error {
	if done, err := printStructured(w, o.Output, v); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	table(tw)
	return tw.Flush()
}

func printAssetsTable(w io.Writer, assets ...api.Asset) {
	fmt.Fprintln(w, "ID\tTITLE\tSTAGE\tQC STATUS\tSCORE\tREWORKS\tREVIEWER")
	for _, a := range assets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", a.Id, a.Title, a.WorkflowStage, a.QcStatus, derefInt(a.QcScore), a.ReworkCount, derefUint(a.QcReviewerId))
	}
}

func printReviewsTable(w io.Writer, reviews ...api.QCReview) {
	fmt.Fprintln(w, "ID\tDATE\tREVIEWER\tDECISION\tSCORE\tCHECKLIST")
	for _, r := range reviews {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", r.Id, r.CreatedAt.Format("2006-01-02 15:04"), r.ReviewerId, r.Decision, derefInt(r.Score), derefInt(r.ChecklistCompletion))
	}
}
