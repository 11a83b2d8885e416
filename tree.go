package reviewrank

import (
	"math/rand"
	"slices"
)

// A treeNode is either a split (left >= 0) or a leaf holding a prediction.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// regressionTree is a CART tree fit on squared error.
type regressionTree struct {
	nodes []treeNode
}

func (t *regressionTree) predict(row func(j int) float64) float64 {
	n := &t.nodes[0]
	for n.left >= 0 {
		if row(n.feature) <= n.threshold {
			n = &t.nodes[n.left]
		} else {
			n = &t.nodes[n.right]
		}
	}
	return n.value
}

// sortedSample pairs a feature value with its target for split search.
type sortedSample struct {
	x, y float64
}

// treeBuilder grows one tree over column-major data. Its buffers are reused
// across nodes.
type treeBuilder struct {
	cols           [][]float64
	y              []float64
	maxDepth       int
	minSamplesLeaf int
	features       []int
	buf            []sortedSample
	nodes          []treeNode
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

func growTree(cols [][]float64, y []float64, samples []int, opts ForestOpts, rng *rand.Rand) *regressionTree {
	b := &treeBuilder{
		cols:           cols,
		y:              y,
		maxDepth:       opts.MaxDepth,
		minSamplesLeaf: max(opts.MinSamplesLeaf, 1),
		features:       rng.Perm(len(cols)),
		buf:            make([]sortedSample, 0, len(samples)),
	}
	b.build(samples, 0)
	return &regressionTree{nodes: b.nodes}
}

// build grows the subtree over samples and returns its root index.
func (b *treeBuilder) build(samples []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{left: -1, right: -1})

	var sum float64
	pure := true
	for _, s := range samples {
		sum += b.y[s]
		if b.y[s] != b.y[samples[0]] {
			pure = false
		}
	}
	b.nodes[id].value = sum / float64(len(samples))

	if pure || len(samples) < 2*b.minSamplesLeaf || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	best, ok := b.bestSplit(samples, sum)
	if !ok {
		return id
	}

	// Partition in place: samples going left first.
	col := b.cols[best.feature]
	k := 0
	for i, s := range samples {
		if col[s] <= best.threshold {
			samples[i], samples[k] = samples[k], samples[i]
			k++
		}
	}

	left := b.build(samples[:k], depth+1)
	right := b.build(samples[k:], depth+1)
	b.nodes[id].feature = best.feature
	b.nodes[id].threshold = best.threshold
	b.nodes[id].left = left
	b.nodes[id].right = right
	return id
}

// bestSplit searches every feature for the threshold that minimizes the
// summed squared error of the two children. Minimizing that error is the same
// as maximizing sumL²/nL + sumR²/nR, which needs no second pass.
func (b *treeBuilder) bestSplit(samples []int, sum float64) (split, bool) {
	n := len(samples)
	best := split{feature: -1}
	found := false

	for _, f := range b.features {
		col := b.cols[f]

		lo, hi := col[samples[0]], col[samples[0]]
		for _, s := range samples[1:] {
			lo = min(lo, col[s])
			hi = max(hi, col[s])
		}
		if lo == hi {
			continue
		}

		buf := b.buf[:0]
		for _, s := range samples {
			buf = append(buf, sortedSample{x: col[s], y: b.y[s]})
		}
		slices.SortStableFunc(buf, func(a, c sortedSample) int {
			switch {
			case a.x < c.x:
				return -1
			case a.x > c.x:
				return 1
			default:
				return 0
			}
		})

		var left float64
		for i := 0; i < n-1; i++ {
			left += buf[i].y
			if buf[i].x == buf[i+1].x {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < b.minSamplesLeaf || nr < b.minSamplesLeaf {
				continue
			}
			right := sum - left
			score := left*left/float64(nl) + right*right/float64(nr)
			if !found || score > best.score {
				threshold := (buf[i].x + buf[i+1].x) / 2
				if threshold == buf[i+1].x {
					threshold = buf[i].x
				}
				best = split{feature: f, threshold: threshold, score: score}
				found = true
			}
		}
		b.buf = buf
	}

	return best, found
}
