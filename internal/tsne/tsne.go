package tsne

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/vk/bggflow/internal/ctxlog"
)

// Dims is the embedding dimensionality. The dashboard the data feeds is a 3D
// scatter, so this is fixed.
const Dims = 3

// Config tunes the embedding. Zero values fall back to the usual defaults.
type Config struct {
	Perplexity    float64 // default 30
	Iterations    int     // default 1000
	LearningRate  float64 // default 200
	Seed          int64   // PRNG seed for the initial solution
	Exaggeration  float64 // early exaggeration factor, default 12
	ExaggerateFor int     // iterations under exaggeration, default 250
}

// Point is one embedded game.
type Point struct {
	X, Y, Z float64
}

// Extents are the axis bounds of the embedding, kept alongside the
// coordinates so downstream consumers can fix their axes across refreshes.
type Extents struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// Run embeds the feature rows into three dimensions. The context is checked
// every iteration so a cancelled pipeline does not grind through the full
// gradient descent.
func Run(ctx context.Context, rows [][]float64, cfg Config) ([]Point, Extents, error) {
	n := len(rows)
	if n == 0 {
		return nil, Extents{}, nil
	}
	if cfg.Perplexity <= 0 {
		cfg.Perplexity = 30
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 200
	}
	if cfg.Exaggeration <= 0 {
		cfg.Exaggeration = 12
	}
	if cfg.ExaggerateFor <= 0 {
		cfg.ExaggerateFor = 250
	}
	// perplexity must leave room for neighbors
	if float64(n-1) < cfg.Perplexity {
		cfg.Perplexity = math.Max(1, float64(n-1)/3)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting t-SNE.", "points", n, "perplexity", cfg.Perplexity, "iterations", cfg.Iterations)

	p := jointProbabilities(rows, cfg.Perplexity)

	// Early exaggeration pushes clusters apart before fine-tuning.
	for i := range p {
		p[i] *= cfg.Exaggeration
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	y := make([]float64, n*Dims)
	for i := range y {
		y[i] = rng.NormFloat64() * 1e-4
	}

	vel := make([]float64, n*Dims)
	gains := make([]float64, n*Dims)
	for i := range gains {
		gains[i] = 1
	}
	grad := make([]float64, n*Dims)
	q := make([]float64, n*n)

	for iter := 0; iter < cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, Extents{}, fmt.Errorf("t-SNE cancelled at iteration %d: %w", iter, err)
		}
		if iter == cfg.ExaggerateFor {
			for i := range p {
				p[i] /= cfg.Exaggeration
			}
		}

		computeGradient(p, q, y, n, grad)

		momentum := 0.5
		if iter >= 250 {
			momentum = 0.8
		}
		for i := range y {
			// adaptive gains: shrink when gradient and velocity agree in
			// sign, grow when the update direction flips
			if (grad[i] > 0) == (vel[i] > 0) {
				gains[i] *= 0.8
			} else {
				gains[i] += 0.2
			}
			if gains[i] < 0.01 {
				gains[i] = 0.01
			}
			vel[i] = momentum*vel[i] - cfg.LearningRate*gains[i]*grad[i]
			y[i] += vel[i]
		}
		centerSolution(y, n)
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{X: y[i*Dims], Y: y[i*Dims+1], Z: y[i*Dims+2]}
	}
	logger.Info("t-SNE finished.")
	return points, extentsOf(points), nil
}

// jointProbabilities computes the symmetrized high-dimensional affinities P,
// with per-point bandwidth found by binary search on the target perplexity.
func jointProbabilities(rows [][]float64, perplexity float64) []float64 {
	n := len(rows)
	d2 := squaredDistances(rows)
	targetEntropy := math.Log(perplexity)

	cond := make([]float64, n*n)
	for i := 0; i < n; i++ {
		beta := 1.0
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)

		var sum float64
		for attempt := 0; attempt < 50; attempt++ {
			sum = 0
			entropy := 0.0
			for j := 0; j < n; j++ {
				if j == i {
					cond[i*n+j] = 0
					continue
				}
				pj := math.Exp(-d2[i*n+j] * beta)
				cond[i*n+j] = pj
				sum += pj
				entropy += beta * d2[i*n+j] * pj
			}
			if sum == 0 {
				sum = 1e-12
			}
			entropy = entropy/sum + math.Log(sum)

			diff := entropy - targetEntropy
			if math.Abs(diff) < 1e-5 {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}
		for j := 0; j < n; j++ {
			cond[i*n+j] /= sum
		}
	}

	// symmetrize and normalize
	p := make([]float64, n*n)
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := (cond[i*n+j] + cond[j*n+i]) / (2 * float64(n))
			p[i*n+j] = v
			total += v
		}
	}
	for i := range p {
		p[i] = math.Max(p[i]/total, 1e-12)
	}
	return p
}

// computeGradient fills grad with the exact KL gradient for the current
// low-dimensional solution y.
func computeGradient(p, q, y []float64, n int, grad []float64) {
	// student-t affinities
	sumQ := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var d2 float64
			for k := 0; k < Dims; k++ {
				diff := y[i*Dims+k] - y[j*Dims+k]
				d2 += diff * diff
			}
			num := 1 / (1 + d2)
			q[i*n+j] = num
			q[j*n+i] = num
			sumQ += 2 * num
		}
		q[i*n+i] = 0
	}
	if sumQ == 0 {
		sumQ = 1e-12
	}

	for i := range grad {
		grad[i] = 0
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			num := q[i*n+j]
			qij := math.Max(num/sumQ, 1e-12)
			mult := 4 * (p[i*n+j] - qij) * num
			for k := 0; k < Dims; k++ {
				grad[i*Dims+k] += mult * (y[i*Dims+k] - y[j*Dims+k])
			}
		}
	}
}

// centerSolution keeps the embedding centered at the origin.
func centerSolution(y []float64, n int) {
	var mean [Dims]float64
	for i := 0; i < n; i++ {
		for k := 0; k < Dims; k++ {
			mean[k] += y[i*Dims+k]
		}
	}
	for k := 0; k < Dims; k++ {
		mean[k] /= float64(n)
	}
	for i := 0; i < n; i++ {
		for k := 0; k < Dims; k++ {
			y[i*Dims+k] -= mean[k]
		}
	}
}

// squaredDistances computes the pairwise squared Euclidean distance matrix.
func squaredDistances(rows [][]float64) []float64 {
	n := len(rows)
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var d2 float64
			for k := range rows[i] {
				diff := rows[i][k] - rows[j][k]
				d2 += diff * diff
			}
			out[i*n+j] = d2
			out[j*n+i] = d2
		}
	}
	return out
}

func extentsOf(points []Point) Extents {
	if len(points) == 0 {
		return Extents{}
	}
	e := Extents{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
		MinZ: points[0].Z, MaxZ: points[0].Z,
	}
	for _, p := range points[1:] {
		e.MinX = math.Min(e.MinX, p.X)
		e.MaxX = math.Max(e.MaxX, p.X)
		e.MinY = math.Min(e.MinY, p.Y)
		e.MaxY = math.Max(e.MaxY, p.Y)
		e.MinZ = math.Min(e.MinZ, p.Z)
		e.MaxZ = math.Max(e.MaxZ, p.Z)
	}
	return e
}
