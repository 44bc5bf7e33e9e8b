package imageservice

import (
	"math"
	"strconv"
	"strings"
)

// AspectRatio is one of the crop ratios offered to editors in the CMS.
type AspectRatio string

const (
	RatioOriginal AspectRatio = "original"
	Ratio16x9     AspectRatio = "16:9"
	Ratio4x3      AspectRatio = "4:3"
	Ratio3x2      AspectRatio = "3:2"
	Ratio1x1      AspectRatio = "1:1"
	Ratio2x3      AspectRatio = "2:3"
	Ratio3x4      AspectRatio = "3:4"
	Ratio9x16     AspectRatio = "9:16"
	Ratio21x9     AspectRatio = "21:9"
)

var knownRatios = map[AspectRatio]struct{}{
	RatioOriginal: {}, Ratio16x9: {}, Ratio4x3: {}, Ratio3x2: {}, Ratio1x1: {},
	Ratio2x3: {}, Ratio3x4: {}, Ratio9x16: {}, Ratio21x9: {},
}

// ParseAspectRatio maps a CMS option value to a ratio. Unknown or empty
// values fall back to RatioOriginal.
func ParseAspectRatio(s string) AspectRatio {
	r := AspectRatio(strings.TrimSpace(s))
	if _, ok := knownRatios[r]; ok {
		return r
	}
	return RatioOriginal
}

func (r AspectRatio) parts() (int, int, bool) {
	ws, hs, found := strings.Cut(string(r), ":")
	if !found {
		return 0, 0, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// Crop returns the "WxH" crop string for the given output width, or "" for
// RatioOriginal (format and quality transform only).
func (r AspectRatio) Crop(width int) string {
	rw, rh, ok := r.parts()
	if !ok || width <= 0 {
		return ""
	}
	height := int(math.Round(float64(width) * float64(rh) / float64(rw)))
	if height < 1 {
		height = 1
	}
	return strconv.Itoa(width) + "x" + strconv.Itoa(height)
}

// SrcSet builds a srcset attribute value for src at each width. With
// RatioOriginal the crop is "<w>x0" so the Image Service keeps the
// original proportions.
func (t Transformer) SrcSet(src string, ratio AspectRatio, widths []int, focus, filters string) string {
	if src == "" || len(widths) == 0 {
		return ""
	}
	entries := make([]string, 0, len(widths))
	for _, w := range widths {
		if w <= 0 {
			continue
		}
		crop := ratio.Crop(w)
		if crop == "" {
			crop = strconv.Itoa(w) + "x0"
		}
		entries = append(entries, t.ProcessedImage(src, crop, focus, filters)+" "+strconv.Itoa(w)+"w")
	}
	return strings.Join(entries, ", ")
}

// SrcSet is Transformer.SrcSet with the default transformer.
func SrcSet(src string, ratio AspectRatio, widths []int, focus, filters string) string {
	return defaultTransformer.SrcSet(src, ratio, widths, focus, filters)
}
