package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	imageCrop, imageFocus, imageFilters, imageRatio = "", "", "", ""
	imageWidth, imageWidths = 0, nil
	slugFolder = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "httpjpg dev\n", out)
}

func TestImageRatioWidth(t *testing.T) {
	out, err := execute(t, "image", "https://a.storyblok.com/f/1/2000x1000/x.jpg", "--ratio", "16:9", "--width", "800")
	require.NoError(t, err)
	assert.Equal(t, "https://a.storyblok.com/f/1/2000x1000/x.jpg/m/800x450/filters:quality(75)\n", out)
}

func TestImageExternalUnchanged(t *testing.T) {
	out, err := execute(t, "image", "https://example.com/x.jpg", "--crop", "100x100")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.jpg\n", out)
}

func TestImageRejectsBadCrop(t *testing.T) {
	_, err := execute(t, "image", "https://a.storyblok.com/f/1/x.jpg", "--crop", "wide")
	assert.Error(t, err)
}

func TestSlugMapping(t *testing.T) {
	out, err := execute(t, "slug", "--folder", "portfolio", "/", "/about/", "/_config/")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "/\tportfolio\t/", lines[0])
	assert.Equal(t, "/about/\tportfolio/about\t/about/", lines[1])
	assert.Equal(t, "/_config/\texcluded", lines[2])
}
