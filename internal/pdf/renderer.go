// Package pdf drives a headless browser to turn HTML documents into PDF
// byte buffers. Every render launches a fresh browser instance that is
// released on all exit paths, success or failure.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Sentinel errors for renderer operations.
var (
	ErrBrowserLaunch  = errors.New("failed to launch browser")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// Default page margins in CSS pixels.
const (
	defaultMarginTopPx    = 80
	defaultMarginBottomPx = 30
	defaultMarginLeftPx   = 20
	defaultMarginRightPx  = 20

	// A4 in inches.
	paperWidthInches  = 8.27
	paperHeightInches = 11.69

	pixelsPerInch = 96
)

// Margins overrides individual page margins, in CSS pixels. Nil fields
// keep the defaults.
type Margins struct {
	Top    *float64
	Bottom *float64
	Left   *float64
	Right  *float64
}

// Options configures a single render.
type Options struct {
	HeaderTemplate string
	Margins        Margins
}

// Renderer converts an HTML document into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, htmlContent string, opts Options) ([]byte, error)
}

var _ Renderer = (*RodRenderer)(nil)

// RodRenderer renders through headless Chrome via go-rod. Rod downloads
// Chromium on first run unless a binary is supplied.
type RodRenderer struct {
	bin       string
	noSandbox bool
	timeout   time.Duration
}

func NewRodRenderer(bin string, noSandbox bool, timeout time.Duration) *RodRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RodRenderer{bin: bin, noSandbox: noSandbox, timeout: timeout}
}

// RenderHTML loads the document in a fresh browser instance and exports
// a paginated PDF with header/footer display enabled. The browser is
// closed before returning regardless of which step failed.
func (r *RodRenderer) RenderHTML(ctx context.Context, htmlContent string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := writeTempHTML(htmlContent)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	l := launcher.New()
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	if r.noSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// Data-URI images resolve during load; wait out any stragglers.
	if err := page.Timeout(timeout).WaitIdle(timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPrintOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPrintOptions constructs proto.PagePrintToPDF. The header template
// passes through verbatim; Chrome resolves date/pageNumber/totalPages.
func buildPrintOptions(opts Options) *proto.PagePrintToPDF {
	top := pxOrDefault(opts.Margins.Top, defaultMarginTopPx)
	bottom := pxOrDefault(opts.Margins.Bottom, defaultMarginBottomPx)
	left := pxOrDefault(opts.Margins.Left, defaultMarginLeftPx)
	right := pxOrDefault(opts.Margins.Right, defaultMarginRightPx)

	header := opts.HeaderTemplate
	if header == "" {
		header = "<span></span>"
	}

	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(paperWidthInches),
		PaperHeight:         floatPtr(paperHeightInches),
		MarginTop:           floatPtr(top / pixelsPerInch),
		MarginBottom:        floatPtr(bottom / pixelsPerInch),
		MarginLeft:          floatPtr(left / pixelsPerInch),
		MarginRight:         floatPtr(right / pixelsPerInch),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      header,
		FooterTemplate:      "<span></span>",
	}
}

func pxOrDefault(v *float64, def float64) float64 {
	if v != nil && *v >= 0 {
		return *v
	}
	return def
}

func floatPtr(v float64) *float64 {
	return &v
}

// writeTempHTML writes content to a temp file for file:// loading.
func writeTempHTML(content string) (string, func(), error) {
	f, err := os.CreateTemp("", "checklist-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, cleanup, nil
}
