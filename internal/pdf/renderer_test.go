package pdf

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintOptions_Defaults(t *testing.T) {
	opts := buildPrintOptions(Options{})

	require.NotNil(t, opts.PaperWidth)
	require.NotNil(t, opts.PaperHeight)
	assert.InDelta(t, 8.27, *opts.PaperWidth, 0.001)
	assert.InDelta(t, 11.69, *opts.PaperHeight, 0.001)

	// Pixel defaults converted to inches at 96 dpi.
	assert.InDelta(t, 80.0/96, *opts.MarginTop, 0.0001)
	assert.InDelta(t, 30.0/96, *opts.MarginBottom, 0.0001)
	assert.InDelta(t, 20.0/96, *opts.MarginLeft, 0.0001)
	assert.InDelta(t, 20.0/96, *opts.MarginRight, 0.0001)

	assert.True(t, opts.PrintBackground)
	assert.True(t, opts.DisplayHeaderFooter)
	assert.Equal(t, "<span></span>", opts.HeaderTemplate)
	assert.Equal(t, "<span></span>", opts.FooterTemplate)
}

func TestBuildPrintOptions_MarginOverrides(t *testing.T) {
	top := 96.0
	left := 48.0
	opts := buildPrintOptions(Options{
		Margins: Margins{Top: &top, Left: &left},
	})

	assert.InDelta(t, 1.0, *opts.MarginTop, 0.0001)
	assert.InDelta(t, 0.5, *opts.MarginLeft, 0.0001)
	// Unset margins keep the defaults.
	assert.InDelta(t, 30.0/96, *opts.MarginBottom, 0.0001)
	assert.InDelta(t, 20.0/96, *opts.MarginRight, 0.0001)
}

func TestBuildPrintOptions_NegativeMarginFallsBack(t *testing.T) {
	bad := -10.0
	opts := buildPrintOptions(Options{Margins: Margins{Top: &bad}})
	assert.InDelta(t, 80.0/96, *opts.MarginTop, 0.0001)
}

func TestBuildPrintOptions_HeaderPassthrough(t *testing.T) {
	header := `<div><span class="pageNumber"></span>/<span class="totalPages"></span></div>`
	opts := buildPrintOptions(Options{HeaderTemplate: header})

	// The fragment reaches Chrome untouched.
	assert.Equal(t, header, opts.HeaderTemplate)
}

func TestWriteTempHTML(t *testing.T) {
	path, cleanup, err := writeTempHTML("<html><body>hello</body></html>")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>hello</body></html>", string(data))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewRodRenderer_TimeoutDefault(t *testing.T) {
	r := NewRodRenderer("", false, 0)
	assert.Equal(t, 30*time.Second, r.timeout)

	r = NewRodRenderer("", false, 5*time.Second)
	assert.Equal(t, 5*time.Second, r.timeout)
}

func TestRenderHTML_CancelledContext(t *testing.T) {
	r := NewRodRenderer("", false, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancelled contexts bail before any browser work starts.
	_, err := r.RenderHTML(ctx, "<html></html>", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
