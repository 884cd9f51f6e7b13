package main

import (
	"context"

	"github.com/spf13/cobra"

	safecomms "github.com/safecomms/gosdk"
)

func newTextCmd(flags *globalFlags) *cobra.Command {
	req := &safecomms.TextRequest{}

	cmd := &cobra.Command{
		Use:   "text <content>",
		Short: "Moderate a piece of text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Content = args[0]
			return run(cmd, flags, func(ctx context.Context, c *safecomms.Client) (*safecomms.Result, error) {
				return c.ModerateText(ctx, req)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Language, "language", safecomms.DefaultLanguage, "Language of the content")
	f.BoolVar(&req.Replace, "replace", false, "Replace flagged content")
	f.BoolVar(&req.PII, "pii", false, "Detect personally identifiable information")
	f.StringVar(&req.ReplaceSeverity, "replace-severity", "", "Minimum severity that triggers replacement")
	f.StringVar(&req.ModerationProfileID, "profile", "", "Moderation profile ID")
	return cmd
}

// addImageFlags binds the flags shared by the image and upload commands.
func addImageFlags(cmd *cobra.Command, opts *safecomms.ImageOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.Language, "language", safecomms.DefaultLanguage, "Language of any text in the image")
	f.StringVar(&opts.ModerationProfileID, "profile", "", "Moderation profile ID")
	f.BoolVar(&opts.EnableOCR, "ocr", false, "Extract and moderate text in the image")
	f.BoolVar(&opts.EnhancedOCR, "enhanced-ocr", false, "Use enhanced OCR")
	f.BoolVar(&opts.ExtractMetadata, "metadata", false, "Extract EXIF metadata")
}

func newImageCmd(flags *globalFlags) *cobra.Command {
	req := &safecomms.ImageRequest{}

	cmd := &cobra.Command{
		Use:   "image <url-or-base64>",
		Short: "Moderate an image by URL or base64 payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Image = args[0]
			return run(cmd, flags, func(ctx context.Context, c *safecomms.Client) (*safecomms.Result, error) {
				return c.ModerateImage(ctx, req)
			})
		},
	}
	addImageFlags(cmd, &req.Options)
	return cmd
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	opts := &safecomms.ImageOptions{}

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload an image file and moderate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, c *safecomms.Client) (*safecomms.Result, error) {
				return c.ModerateImagePath(ctx, args[0], *opts)
			})
		},
	}
	addImageFlags(cmd, opts)
	return cmd
}

func newUsageCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show usage statistics for the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, c *safecomms.Client) (*safecomms.Result, error) {
				return c.GetUsage(ctx)
			})
		},
	}
}
