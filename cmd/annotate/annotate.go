package annotate

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/runner"
)

// Command creates the annotate command, which labels a directory of images
// through the Vision API.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate [image-dir]",
		Short: "Label every image in a directory",
		Long: `Send every image in the directory to the Cloud Vision API and write the
returned labels and confidence scores to the annotation table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				ctx.Settings.Input.Images = args[0]
			}
			src, err := runner.NewVisionSource(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			return runner.Annotate(cmd.Context(), ctx, src)
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags configures flags specific to the annotate command.
func setupFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("credentials", "", "Service account JSON file (default: application default credentials)")
	flags.Int("max-results", 0, "Labels requested per image")
	flags.Float64("rps", 0, "Vision requests per second")

	cobra.CheckErr(conf.MarkFlags(flags, map[string]string{
		"credentials": "vision.credentialsfile",
		"max-results": "vision.maxresults",
		"rps":         "vision.requestspersecond",
	}))
}
