package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/httpjpg/httpjpg/imageservice"
)

var (
	imageCrop    string
	imageFocus   string
	imageFilters string
	imageRatio   string
	imageWidth   int
	imageWidths  []int
)

var imageCmd = &cobra.Command{
	Use:   "image <src>",
	Short: "Print the Image Service URL for an asset",
	Long: `Builds the processed URL the site would render for src.

--ratio with --width derives the crop; --widths prints a srcset instead.
Assets outside the Storyblok CDN are printed unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func init() {
	f := imageCmd.Flags()
	f.StringVar(&imageCrop, "crop", "", `explicit crop "WxH"`)
	f.StringVar(&imageFocus, "focus", "", `focal rectangle "x1xy1:x2xy2"`)
	f.StringVar(&imageFilters, "filters", "", "extra filters, colon separated")
	f.StringVar(&imageRatio, "ratio", "", "aspect ratio, e.g. 16:9 or original")
	f.IntVar(&imageWidth, "width", 0, "output width used with --ratio")
	f.IntSliceVar(&imageWidths, "widths", nil, "srcset widths")
}

func runImage(cmd *cobra.Command, args []string) error {
	src := args[0]
	ratio := imageservice.ParseAspectRatio(imageRatio)

	if len(imageWidths) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), imageservice.SrcSet(src, ratio, imageWidths, imageFocus, imageFilters))
		return nil
	}

	crop := imageCrop
	if crop == "" && imageWidth > 0 {
		crop = ratio.Crop(imageWidth)
	}
	if crop != "" {
		if _, _, ok := imageservice.ParseCrop(crop); !ok {
			return fmt.Errorf("invalid crop %q", crop)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), imageservice.ProcessedImage(src, crop, imageFocus, imageFilters))
	return nil
}
