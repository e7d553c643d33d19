package palette

import (
	"fmt"
	"image"
	"sort"
)

const (
	maxSamples    = 4000
	maxIterations = 12
	convergence   = 2.0
)

// Extractor derives dominant-color palettes from album art using k-means
// clustering over a pixel sample.
type Extractor struct {
	count int
}

// NewExtractor creates an extractor producing palettes of the given size.
func NewExtractor(count int) (*Extractor, error) {
	if count < 2 {
		return nil, fmt.Errorf("palette size must be at least 2, got %d", count)
	}
	return &Extractor{count: count}, nil
}

// Extract clusters the image pixels and returns a palette ordered by cluster
// weight, largest first.
func (e *Extractor) Extract(img image.Image) (Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	samples := samplePixels(img)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	k := e.count
	if k > len(samples) {
		k = len(samples)
	}

	centroids, weights := kmeans(samples, k)

	type weighted struct {
		c Color
		w int
	}
	ranked := make([]weighted, len(centroids))
	for i, c := range centroids {
		ranked[i] = weighted{c: c.round(), w: weights[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].w > ranked[j].w })

	out := make(Palette, 0, e.count)
	for _, r := range ranked {
		out = append(out, r.c)
	}
	// Degenerate art (single flat color) still yields a usable palette
	for len(out) < 2 {
		out = append(out, out[len(out)-1])
	}
	return out, nil
}

type point3 struct {
	r, g, b float64
}

func (p point3) round() Color {
	return Color{R: uint8(p.r + 0.5), G: uint8(p.g + 0.5), B: uint8(p.b + 0.5)}
}

func (p point3) distSq(q point3) float64 {
	dr := p.r - q.r
	dg := p.g - q.g
	db := p.b - q.b
	return dr*dr + dg*dg + db*db
}

// samplePixels walks the image with a stride chosen to collect at most
// maxSamples points.
func samplePixels(img image.Image) []point3 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil
	}
	stride := 1
	for total/(stride*stride) > maxSamples {
		stride++
	}

	samples := make([]point3, 0, total/(stride*stride)+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			c := FromColor(img.At(x, y))
			samples = append(samples, point3{r: float64(c.R), g: float64(c.G), b: float64(c.B)})
		}
	}
	return samples
}

// kmeans runs Lloyd's algorithm with deterministic, evenly spaced seeding so
// repeated renders of the same art yield the same palette.
func kmeans(samples []point3, k int) ([]point3, []int) {
	centroids := make([]point3, k)
	for i := range centroids {
		centroids[i] = samples[i*len(samples)/k]
	}

	assign := make([]int, len(samples))
	counts := make([]int, k)

	for iter := 0; iter < maxIterations; iter++ {
		for i, s := range samples {
			best := 0
			bestDist := s.distSq(centroids[0])
			for j := 1; j < k; j++ {
				if d := s.distSq(centroids[j]); d < bestDist {
					best, bestDist = j, d
				}
			}
			assign[i] = best
		}

		sums := make([]point3, k)
		for i := range counts {
			counts[i] = 0
		}
		for i, s := range samples {
			c := assign[i]
			sums[c].r += s.r
			sums[c].g += s.g
			sums[c].b += s.b
			counts[c]++
		}

		moved := 0.0
		for j := range centroids {
			if counts[j] == 0 {
				continue
			}
			next := point3{
				r: sums[j].r / float64(counts[j]),
				g: sums[j].g / float64(counts[j]),
				b: sums[j].b / float64(counts[j]),
			}
			moved += centroids[j].distSq(next)
			centroids[j] = next
		}
		if moved < convergence {
			break
		}
	}
	return centroids, counts
}
