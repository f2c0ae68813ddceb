package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	api "github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ReviewOptions struct {
	GlobalOptions

	Decision            string
	Score               int
	Remarks             string
	ChecklistCompletion int
	ChecklistFile       string
	Output              string
}

func DefaultReviewOptions() *ReviewOptions {
	return &ReviewOptions{
		GlobalOptions:       DefaultGlobalOptions(),
		Score:               -1,
		ChecklistCompletion: -1,
	}
}

func NewCmdReview() *cobra.Command {
	o := DefaultReviewOptions()
	cmd := &cobra.Command{
		Use:   "review ASSET_ID --decision (approved | rejected | rework)",
		Short: "Record a qc decision on an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

func (o *ReviewOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Decision, "decision", "d", o.Decision, "QC decision: approved, rejected or rework")
	fs.IntVar(&o.Score, "score", o.Score, "QC score between 0 and 100")
	fs.StringVar(&o.Remarks, "remarks", o.Remarks, "Reviewer remarks")
	fs.IntVar(&o.ChecklistCompletion, "checklist-completion", o.ChecklistCompletion, "Checklist completion percentage")
	fs.StringVar(&o.ChecklistFile, "checklist-file", o.ChecklistFile, "JSON file holding the checklist items")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
}

// Validate only checks the shape of the command. Decision and score ranges are left to the server.
func (o *ReviewOptions) Validate(args []string) error {
	if _, err := parseAssetID(args[0]); err != nil {
		return err
	}
	if o.Decision == "" {
		return errors.New("--decision is required")
	}
	return validateOutput(o.Output)
}

func (o *ReviewOptions) Run(ctx context.Context, w io.Writer, args []string) error {
	id, _ := parseAssetID(args[0])

	req, err := o.request()
	if err != nil {
		return err
	}

	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	asset, err := c.ReviewAsset(ctx, id, req)
	if err != nil {
		return fmt.Errorf("reviewing asset %d: %w", id, err)
	}
	return printAsset(w, o.Output, asset)
}

func (o *ReviewOptions) request() (api.QCReviewRequest, error) {
	req := api.QCReviewRequest{QcDecision: o.Decision}
	if o.Score >= 0 {
		req.QcScore = &o.Score
	}
	if o.Remarks != "" {
		req.QcRemarks = &o.Remarks
	}
	if o.ChecklistCompletion >= 0 {
		req.ChecklistCompletion = &o.ChecklistCompletion
	}
	if o.ChecklistFile != "" {
		content, err := os.ReadFile(o.ChecklistFile)
		if err != nil {
			return req, fmt.Errorf("reading checklist: %w", err)
		}
		var items []api.ChecklistItem
		if err := json.Unmarshal(content, &items); err != nil {
			return req, fmt.Errorf("decoding checklist %s: %w", o.ChecklistFile, err)
		}
		req.ChecklistItems = &items
	}
	return req, nil
}

// TransitionOptions drive the body-less transitions: start and submit.
type TransitionOptions struct {
	GlobalOptions

	Output string
}

func NewCmdStart() *cobra.Command {
	return newTransitionCmd("start ASSET_ID", "Move an asset into the InProgress stage", func(ctx context.Context, c *client.Client, id uint) (*api.Asset, error) {
		return c.StartWork(ctx, id)
	})
}

func NewCmdSubmit() *cobra.Command {
	return newTransitionCmd("submit ASSET_ID", "Send an asset to qc", func(ctx context.Context, c *client.Client, id uint) (*api.Asset, error) {
		return c.SubmitForReview(ctx, id)
	})
}

func newTransitionCmd(use, short string, call func(context.Context, *client.Client, uint) (*api.Asset, error)) *cobra.Command {
	o := &TransitionOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			if err := validateOutput(o.Output); err != nil {
				return err
			}

			c, err := o.Client()
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			asset, err := call(cmd.Context(), c, id)
			if err != nil {
				return fmt.Errorf("asset %d: %w", id, err)
			}
			return printAsset(cmd.OutOrStdout(), o.Output, asset)
		},
		SilenceUsage: true,
	}
	o.GlobalOptions.Bind(cmd.Flags())
	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
	return cmd
}

func printAsset(w io.Writer, output string, asset *api.Asset) error {
	if done, err := printStructured(w, output, asset); done {
		return err
	}
	fmt.Fprintf(w, "asset %d: stage %s, qc status %s\n", asset.Id, asset.WorkflowStage, asset.QcStatus)
	return nil
}
