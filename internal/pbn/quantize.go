package pbn

import (
	"fmt"
	"math/rand/v2"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

// Clustering defaults.
const (
	// MinAttempts is the smallest number of independently seeded k-means
	// runs Quantize performs.
	MinAttempts = 10

	DefaultMaxIterations = 300
	DefaultTolerance     = 1e-4
	DefaultSeed          = 1

	// DefaultSampleSize caps the pixels used to fit centroids on images
	// with many distinct colors.
	DefaultSampleSize = 16384
)

// QuantizeOptions tunes the k-means search. Zero values select defaults.
type QuantizeOptions struct {
	// Attempts is the number of seeded runs; the run with the lowest
	// within-cluster variance wins. Values below MinAttempts are raised.
	Attempts int

	// MaxIterations caps the Lloyd iterations of one run.
	MaxIterations int

	// Tolerance stops a run once the summed squared centroid shift of an
	// iteration is at most Tolerance times the mean per-channel variance
	// of the image.
	Tolerance float64

	// Seed drives k-means++ seeding. Equal seeds give equal results.
	Seed uint64

	// SampleSize bounds the number of pixels the centroids are fitted on
	// when the image has more distinct colors than that. Every pixel is
	// still labeled. Zero selects DefaultSampleSize; a negative value fits
	// on all colors.
	SampleSize int
}

func (o QuantizeOptions) withDefaults() QuantizeOptions {
	o.Attempts = max(o.Attempts, MinAttempts)
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.SampleSize == 0 {
		o.SampleSize = DefaultSampleSize
	}
	return o
}

// Quantization is the output of Quantize.
type Quantization struct {
	// Palette holds the K cluster centroids rounded to 8-bit channels.
	Palette Palette

	// Labels assigns every pixel its nearest palette color.
	Labels *LabelMap

	// Counts is the number of pixels assigned to each palette index.
	// Every entry is at least 1.
	Counts []int

	// Inertia is the within-cluster sum of squared distances of the
	// winning run, measured on the fitted colors against its unrounded
	// centroids.
	Inertia float64

	// Iterations is the number of Lloyd iterations the winning run used.
	Iterations int
}

// Quantize reduces img to k representative colors with k-means in RGB
// space and labels every pixel with its nearest palette color.
//
// # Algorithm
//
// Pixels sharing a color are collapsed into one weighted point, which gives
// the same partition as clustering every pixel but keeps each iteration
// proportional to the number of distinct colors. Each attempt:
//
//  1. Seeds k centroids with weighted k-means++.
//  2. Alternates nearest-centroid assignment (squared Euclidean distance,
//     lowest index wins ties) and centroid update until the centroid shift
//     drops under the tolerance or MaxIterations is reached.
//  3. Reseeds an empty cluster at the point farthest from its own centroid,
//     at most k times per attempt.
//
// An attempt is discarded if it cannot keep k non-empty clusters or if two
// centroids round to the same 8-bit color. The surviving attempt with the
// lowest inertia wins; ties keep the earlier attempt. Final labels are
// assigned against the rounded palette.
//
// # Cost
//
// One Lloyd iteration costs O(distinct colors × k). Photographs at the
// default working size carry hundreds of thousands of distinct colors, so
// when the image has more than SampleSize of them the centroids are fitted
// on an evenly strided sample of SampleSize pixels and only the final
// labeling visits every color.
//
// # Errors
//
//   - ErrInvalidInput if img is nil, empty or malformed
//   - ErrInvalidClusterCount if k <= 0 or k exceeds the pixel count
//   - ErrClusteringFailure if the image has fewer than k distinct colors or
//     every attempt is discarded
func Quantize(img *imaging.RGBImage, k int, opts QuantizeOptions) (*Quantization, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	if k <= 0 || k > img.W*img.H {
		return nil, fmt.Errorf("%w: %d (image has %d pixels)", ErrInvalidClusterCount, k, img.W*img.H)
	}
	opts = opts.withDefaults()

	set := collectColors(img)
	if len(set.colors) < k {
		return nil, fmt.Errorf("%w: image has %d distinct colors, %d clusters requested",
			ErrClusteringFailure, len(set.colors), k)
	}

	fit := set.subsample(opts.SampleSize, k)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	lim := lloydLimits{
		maxIterations: opts.MaxIterations,
		maxReseeds:    k,
		threshold:     opts.Tolerance * set.meanVariance(),
	}

	best, err := bestRun(k, opts.Attempts, func() (*clusterRun, bool) {
		run, ok := fit.lloyd(fit.seed(k, rng), lim)
		if !ok {
			return nil, false
		}
		return run, set.finish(run)
	})
	if err != nil {
		return nil, err
	}

	labels := NewLabelMap(img.W, img.H, k)
	parallel.Line(len(labels.Labels), func(start, end int) {
		for i := start; i < end; i++ {
			labels.Labels[i] = best.labelOf[set.pixelColor[i]]
		}
	})

	return &Quantization{
		Palette:    best.palette,
		Labels:     labels,
		Counts:     best.counts,
		Inertia:    best.inertia,
		Iterations: best.iterations,
	}, nil
}

type point [3]float64

func dist2(a, b point) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

// nearest returns the index of the centroid closest to p, preferring the
// lowest index on ties.
func nearest(p point, centroids []point) int {
	best := 0
	bestD := dist2(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := dist2(p, centroids[c]); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// colorSet is the image reduced to its distinct colors with pixel counts.
type colorSet struct {
	colors     []point
	weights    []float64
	pixelColor []int32 // per pixel, index into colors
}

func collectColors(img *imaging.RGBImage) *colorSet {
	n := img.W * img.H
	index := make(map[uint32]int32)
	set := &colorSet{pixelColor: make([]int32, n)}
	for i := range n {
		r, g, b := img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2]
		key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
		ci, ok := index[key]
		if !ok {
			ci = int32(len(set.colors))
			index[key] = ci
			set.colors = append(set.colors, point{float64(r), float64(g), float64(b)})
			set.weights = append(set.weights, 0)
		}
		set.weights[ci]++
		set.pixelColor[i] = ci
	}
	return set
}

// subsample returns the colors of every step-th pixel, with step chosen so
// at most limit pixels are kept. It returns s itself when s has at most
// limit distinct colors, when limit is negative, or when the sample would
// hold fewer than k distinct colors. The result has no pixel mapping.
func (s *colorSet) subsample(limit, k int) *colorSet {
	if limit < 0 || len(s.colors) <= limit {
		return s
	}
	step := (len(s.pixelColor) + limit - 1) / limit

	index := make(map[int32]int)
	fit := &colorSet{}
	for i := 0; i < len(s.pixelColor); i += step {
		ci := s.pixelColor[i]
		j, ok := index[ci]
		if !ok {
			j = len(fit.colors)
			index[ci] = j
			fit.colors = append(fit.colors, s.colors[ci])
			fit.weights = append(fit.weights, 0)
		}
		fit.weights[j]++
	}
	if len(fit.colors) < k {
		return s
	}
	return fit
}

// meanVariance is the pixel-weighted variance averaged over the channels.
func (s *colorSet) meanVariance() float64 {
	var total float64
	var mean point
	for i, c := range s.colors {
		w := s.weights[i]
		total += w
		for ch := range 3 {
			mean[ch] += w * c[ch]
		}
	}
	for ch := range 3 {
		mean[ch] /= total
	}
	var v float64
	for i, c := range s.colors {
		v += s.weights[i] * dist2(c, mean)
	}
	return v / total / 3
}

// seed picks k distinct starting centroids with weighted k-means++.
func (s *colorSet) seed(k int, rng *rand.Rand) []point {
	centroids := make([]point, 0, k)
	chosen := make([]bool, len(s.colors))
	d2 := make([]float64, len(s.colors))

	pick := func(i int) {
		chosen[i] = true
		centroids = append(centroids, s.colors[i])
		for j, c := range s.colors {
			d := dist2(c, s.colors[i])
			if len(centroids) == 1 || d < d2[j] {
				d2[j] = d
			}
		}
	}

	pick(sample(s.weights, rng))
	prob := make([]float64, len(s.colors))
	for len(centroids) < k {
		var total float64
		for j := range prob {
			prob[j] = s.weights[j] * d2[j]
			total += prob[j]
		}
		if total == 0 {
			// every remaining point coincides with a centroid; take the
			// first color not yet used
			for j := range chosen {
				if !chosen[j] {
					pick(j)
					break
				}
			}
			continue
		}
		pick(sample(prob, rng))
	}
	return centroids
}

// sample draws an index with probability proportional to w.
func sample(w []float64, rng *rand.Rand) int {
	var total float64
	for _, v := range w {
		total += v
	}
	r := rng.Float64() * total
	last := 0
	for i, v := range w {
		if v == 0 {
			continue
		}
		last = i
		if r < v {
			return i
		}
		r -= v
	}
	return last
}

type clusterRun struct {
	centroids  []point
	inertia    float64
	iterations int
	reseeds    int

	palette Palette
	labelOf []int // per distinct color, label against the rounded palette
	counts  []int
}

func (s *colorSet) assign(centroids []point, assign []int) {
	parallel.Line(len(s.colors), func(start, end int) {
		for i := start; i < end; i++ {
			assign[i] = nearest(s.colors[i], centroids)
		}
	})
}

// bestRun calls attempt the given number of times and keeps the successful
// run with the lowest inertia; ties keep the earlier run.
func bestRun(k, attempts int, attempt func() (*clusterRun, bool)) (*clusterRun, error) {
	var best *clusterRun
	for range attempts {
		run, ok := attempt()
		if !ok {
			continue
		}
		if best == nil || run.inertia < best.inertia {
			best = run
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no attempt out of %d kept %d distinct non-empty clusters",
			ErrClusteringFailure, attempts, k)
	}
	return best, nil
}

type lloydLimits struct {
	maxIterations int
	maxReseeds    int
	threshold     float64 // summed squared centroid shift that ends the run
}

// lloyd refines the starting centroids in place. It reports false when a
// cluster stays empty: the reseed budget is spent, or no color is left
// off its centroid to move into the empty cluster.
func (s *colorSet) lloyd(centroids []point, lim lloydLimits) (*clusterRun, bool) {
	k := len(centroids)
	assign := make([]int, len(s.colors))
	sums := make([]point, k)
	weights := make([]float64, k)
	reseeds := 0

	iterations := 0
	for iterations < lim.maxIterations {
		iterations++
		s.assign(centroids, assign)

		clear(sums)
		clear(weights)
		for i, c := range s.colors {
			w := s.weights[i]
			a := assign[i]
			weights[a] += w
			for ch := range 3 {
				sums[a][ch] += w * c[ch]
			}
		}

		for {
			empty := -1
			for c := range k {
				if weights[c] == 0 {
					empty = c
					break
				}
			}
			if empty < 0 {
				break
			}
			if reseeds >= lim.maxReseeds {
				return nil, false
			}
			reseeds++
			far := s.farthest(centroids, assign)
			if far < 0 {
				return nil, false
			}
			old := assign[far]
			w := s.weights[far]
			c := s.colors[far]
			weights[old] -= w
			for ch := range 3 {
				sums[old][ch] -= w * c[ch]
			}
			assign[far] = empty
			weights[empty] = w
			sums[empty] = point{w * c[0], w * c[1], w * c[2]}
			centroids[empty] = c
		}

		var shift float64
		for c := range k {
			next := point{sums[c][0] / weights[c], sums[c][1] / weights[c], sums[c][2] / weights[c]}
			shift += dist2(centroids[c], next)
			centroids[c] = next
		}
		if shift <= lim.threshold {
			break
		}
	}

	s.assign(centroids, assign)
	var inertia float64
	for i, c := range s.colors {
		inertia += s.weights[i] * dist2(c, centroids[assign[i]])
	}

	return &clusterRun{centroids: centroids, inertia: inertia, iterations: iterations, reseeds: reseeds}, true
}

// farthest returns the color farthest from its assigned centroid, or -1
// when every color sits exactly on a centroid.
func (s *colorSet) farthest(centroids []point, assign []int) int {
	best := -1
	bestD := 0.0
	for i, c := range s.colors {
		if d := dist2(c, centroids[assign[i]]); d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

// finish rounds the centroids into a palette and labels every distinct
// color against it. It reports false if two centroids round to the same
// color or a palette entry ends up with no pixels.
func (s *colorSet) finish(run *clusterRun) bool {
	k := len(run.centroids)
	palette := make(Palette, k)
	rounded := make([]point, k)
	seen := make(map[imaging.RGB]bool, k)
	for c, p := range run.centroids {
		col := imaging.RGB{
			R: imaging.RoundChannel(p[0]),
			G: imaging.RoundChannel(p[1]),
			B: imaging.RoundChannel(p[2]),
		}
		if seen[col] {
			return false
		}
		seen[col] = true
		palette[c] = col
		rounded[c] = point{float64(col.R), float64(col.G), float64(col.B)}
	}

	labelOf := make([]int, len(s.colors))
	s.assign(rounded, labelOf)
	counts := make([]int, k)
	for i, l := range labelOf {
		counts[l] += int(s.weights[i])
	}
	for _, n := range counts {
		if n == 0 {
			return false
		}
	}

	run.palette = palette
	run.labelOf = labelOf
	run.counts = counts
	return true
}
