package pbn

import (
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

// DenoiseMethod selects the filter applied before quantization.
type DenoiseMethod string

const (
	// DenoiseBilateral is the edge-preserving default.
	DenoiseBilateral DenoiseMethod = "bilateral"
	// DenoiseGaussian is a cheaper blur that also softens region edges.
	DenoiseGaussian DenoiseMethod = "gaussian"
)

// Pipeline defaults.
const (
	DefaultClusters       = 20
	DefaultMaxDimension   = 1024
	DefaultBlurDiameter   = 5
	DefaultSigmaColor     = 200.0
	DefaultSigmaSpace     = 200.0
	DefaultGaussianRadius = 1.5
)

// Options configures a Pipeline.
type Options struct {
	// Clusters is the number of palette colors K.
	Clusters int

	// PreBlur enables the denoise filter before quantization.
	PreBlur bool

	// MaxDimension caps the longer side of the working image. 0 disables
	// downscaling.
	MaxDimension int

	// SmoothRadius is the half-width of the mode filter window.
	SmoothRadius int

	// Denoise selects the pre-blur filter. Empty means bilateral.
	Denoise DenoiseMethod

	// BlurDiameter, SigmaColor and SigmaSpace parameterise the bilateral filter.
	BlurDiameter int
	SigmaColor   float64
	SigmaSpace   float64

	// GaussianRadius parameterises the gaussian filter.
	GaussianRadius float64

	// Quantize tunes the k-means search.
	Quantize QuantizeOptions

	// PreviewWidth and PreviewHeight size the palette strip.
	PreviewWidth  int
	PreviewHeight int
}

// DefaultOptions returns the settings used when converting a photograph.
func DefaultOptions() Options {
	return Options{
		Clusters:       DefaultClusters,
		PreBlur:        true,
		MaxDimension:   DefaultMaxDimension,
		SmoothRadius:   DefaultSmoothRadius,
		Denoise:        DenoiseBilateral,
		BlurDiameter:   DefaultBlurDiameter,
		SigmaColor:     DefaultSigmaColor,
		SigmaSpace:     DefaultSigmaSpace,
		GaussianRadius: DefaultGaussianRadius,
		Quantize: QuantizeOptions{
			Attempts:      MinAttempts,
			MaxIterations: DefaultMaxIterations,
			Tolerance:     DefaultTolerance,
			Seed:          DefaultSeed,
		},
		PreviewWidth:  DefaultPreviewWidth,
		PreviewHeight: DefaultPreviewHeight,
	}
}

// Validate checks option ranges that do not depend on the image.
func (o Options) Validate() error {
	if o.Clusters <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidClusterCount, o.Clusters)
	}
	if o.MaxDimension < 0 {
		return fmt.Errorf("%w: max dimension %d", ErrInvalidInput, o.MaxDimension)
	}
	if o.SmoothRadius < 0 {
		return fmt.Errorf("%w: smoothing radius %d", ErrInvalidInput, o.SmoothRadius)
	}
	switch o.Denoise {
	case "", DenoiseBilateral, DenoiseGaussian:
	default:
		return fmt.Errorf("%w: unknown denoise method %q", ErrInvalidInput, o.Denoise)
	}
	if o.BlurDiameter < 0 || o.SigmaColor < 0 || o.SigmaSpace < 0 || o.GaussianRadius < 0 {
		return fmt.Errorf("%w: negative blur parameter", ErrInvalidInput)
	}
	if o.PreviewWidth <= 0 || o.PreviewHeight <= 0 {
		return fmt.Errorf("%w: preview size %dx%d", ErrInvalidInput, o.PreviewWidth, o.PreviewHeight)
	}
	return nil
}

// Result holds every artifact of one conversion. All images share the
// working size Width×Height except Preview.
type Result struct {
	// Palette is the K quantized colors; Counts[i] is the number of
	// pixels quantization assigned to Palette[i] (before smoothing).
	Palette Palette
	Counts  []int

	// Labels is the smoothed label map.
	Labels *LabelMap

	// Flat is the paint-by-numbers image without outlines.
	Flat *imaging.RGBImage

	// Boundary marks region transitions of Flat.
	Boundary *BoundaryMap

	// Outlined is Flat with boundary pixels painted black.
	Outlined *imaging.RGBImage

	// Preview is the coverage-ordered palette strip.
	Preview *imaging.RGBImage

	OriginalWidth  int
	OriginalHeight int
	Width          int
	Height         int
}

// Entries describes the palette with coverage percentages.
func (r *Result) Entries() []PaletteEntry {
	return DescribePalette(r.Palette, r.Counts)
}

// Pipeline converts images into paint-by-numbers artifacts. A Pipeline
// holds only configuration, so one value can serve concurrent Run calls.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
}

// NewPipeline validates opts and returns a pipeline logging to logger.
// Pass zerolog.Nop() to disable logging.
func NewPipeline(opts Options, logger zerolog.Logger) (*Pipeline, error) {
	if opts.Denoise == "" {
		opts.Denoise = DenoiseBilateral
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		opts: opts,
		log:  logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Convert runs the default pipeline with the given color count and
// pre-blur flag, without logging.
func Convert(img image.Image, clusters int, preBlur bool) (*Result, error) {
	opts := DefaultOptions()
	opts.Clusters = clusters
	opts.PreBlur = preBlur
	p, err := NewPipeline(opts, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	return p.Run(img)
}

// Prepare converts img to the working image: downscaled to MaxDimension
// and, when PreBlur is set, denoised.
func (p *Pipeline) Prepare(img image.Image) (*imaging.RGBImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	return p.prepare(imaging.FromImage(img))
}

func (p *Pipeline) prepare(src *imaging.RGBImage) (*imaging.RGBImage, error) {
	if err := validateImage(src); err != nil {
		return nil, err
	}

	start := time.Now()
	work := imaging.FitWithin(src, p.opts.MaxDimension)
	if work != src {
		p.log.Debug().
			Int("width", src.W).Int("height", src.H).
			Int("working_width", work.W).Int("working_height", work.H).
			Dur("elapsed", time.Since(start)).
			Msg("downscaled")
	}

	if !p.opts.PreBlur {
		return work, nil
	}

	start = time.Now()
	switch p.opts.Denoise {
	case DenoiseGaussian:
		work = imaging.GaussianBlur(work, p.opts.GaussianRadius)
	default:
		work = imaging.BilateralFilter(work, p.opts.BlurDiameter, p.opts.SigmaColor, p.opts.SigmaSpace)
	}
	p.log.Debug().
		Str("method", string(p.opts.Denoise)).
		Dur("elapsed", time.Since(start)).
		Msg("denoised")

	return work, nil
}

// Quantize prepares img and clusters it without smoothing or composing
// outputs. It is used to preview a palette cheaply.
func (p *Pipeline) Quantize(img image.Image) (*Quantization, error) {
	work, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	return p.quantize(work)
}

func (p *Pipeline) quantize(work *imaging.RGBImage) (*Quantization, error) {
	start := time.Now()
	q, err := Quantize(work, p.opts.Clusters, p.opts.Quantize)
	if err != nil {
		return nil, err
	}
	p.log.Debug().
		Int("clusters", p.opts.Clusters).
		Int("iterations", q.Iterations).
		Float64("inertia", q.Inertia).
		Dur("elapsed", time.Since(start)).
		Msg("quantized")
	return q, nil
}

// Run converts img into the four paint-by-numbers artifacts.
//
// Stages, in order:
//  1. Convert to RGB and downscale so the longer side is at most MaxDimension.
//  2. Denoise when PreBlur is set.
//  3. Quantize to Clusters colors.
//  4. Mode-filter the labels with SmoothRadius.
//  5. Paint the smoothed labels with the palette (Flat).
//  6. Extract boundaries from Flat.
//  7. Paint boundary pixels black on a copy of Flat (Outlined).
//  8. Render the palette preview from the quantization coverage.
//
// Any stage failure aborts the run; no partial result is returned.
func (p *Pipeline) Run(img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	return p.RunRGB(imaging.FromImage(img))
}

// RunRGB is Run for an image already converted to an RGBImage.
func (p *Pipeline) RunRGB(src *imaging.RGBImage) (*Result, error) {
	started := time.Now()

	work, err := p.prepare(src)
	if err != nil {
		return nil, err
	}

	q, err := p.quantize(work)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	smoothed, err := Smooth(q.Labels, p.opts.SmoothRadius)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Int("radius", p.opts.SmoothRadius).Dur("elapsed", time.Since(start)).Msg("smoothed")

	flat, err := q.Palette.Colorize(smoothed)
	if err != nil {
		return nil, err
	}

	boundary, err := ExtractBoundaries(flat)
	if err != nil {
		return nil, err
	}

	outlined, err := Outline(flat, boundary)
	if err != nil {
		return nil, err
	}

	preview, err := Preview(q.Palette, q.Counts, p.opts.PreviewWidth, p.opts.PreviewHeight)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Int("width", work.W).Int("height", work.H).
		Int("clusters", len(q.Palette)).
		Int("boundary_pixels", boundary.Count()).
		Dur("elapsed", time.Since(started)).
		Msg("conversion complete")

	return &Result{
		Palette:        q.Palette,
		Counts:         q.Counts,
		Labels:         smoothed,
		Flat:           flat,
		Boundary:       boundary,
		Outlined:       outlined,
		Preview:        preview,
		OriginalWidth:  src.W,
		OriginalHeight: src.H,
		Width:          work.W,
		Height:         work.H,
	}, nil
}
