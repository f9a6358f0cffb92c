package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fourcolor/pkg/imageio"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
)

// previewCommand creates the preview command, which writes the quantized
// image without exporting plates.
func (c *CLI) previewCommand() *cobra.Command {
	var flags pipelineFlags
	var output string

	cmd := &cobra.Command{
		Use:   "preview IMAGE",
		Short: "Quantize an image to the four-colour palette",
		Long: `Resize IMAGE to the print width, optionally denoise it, and map every pixel to
red, yellow, white or black. The result is saved as PNG, JPEG or BMP depending
on the output extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if output == "" {
				output = imageio.BaseName(args[0]) + "_fourcolor.png"
			}
			if _, err := imageio.FormatFor(output); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), args[0], output, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output image: .png, .jpg or .bmp (default IMAGE_fourcolor.png)")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, output string, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	session, err := c.newSession(runner, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Quantizing...")
	spinner.Start()
	err = session.SaveImage(ctx, output)
	spinner.Stop()
	if err != nil {
		return err
	}

	res := session.Current()
	printSuccess("Preview %d×%d px at %g mm", res.Stats.Width, res.Stats.Height, res.WidthMM)
	printStats(res, res.CacheInfo.PreviewHit)
	printFile(output)
	printNewline()
	printNextStep("Export plates", fmt.Sprintf("%s export %s --colors black,red", appName, input))
	return nil
}
