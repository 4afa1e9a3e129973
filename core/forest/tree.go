package forest

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const leaf = -1

// Node is a tree node. Leaves have Feature set to -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// Tree is a regression tree stored as a flat node slice rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree for a single feature row.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature == leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

func (t *Tree) validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature == leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		// children are always appended after their parent
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

type builder struct {
	cols  [][]float64
	y     []float64
	p     Params
	rng   *rand.Rand
	nodes []Node
	order []int
	vals  []float64
}

func growTree(cols [][]float64, y []float64, idx []int, p Params, rng *rand.Rand) Tree {
	b := &builder{
		cols:  cols,
		y:     y,
		p:     p,
		rng:   rng,
		order: make([]int, len(idx)),
		vals:  make([]float64, len(idx)),
	}
	b.grow(idx, 0)
	return Tree{Nodes: b.nodes}
}

func (b *builder) grow(idx []int, depth int) int {
	id := len(b.nodes)
	vals := b.vals[:len(idx)]
	for i, r := range idx {
		vals[i] = b.y[r]
	}
	mean := stat.Mean(vals, nil)
	b.nodes = append(b.nodes, Node{Feature: leaf, Value: mean})

	if len(idx) < b.p.MinSamplesSplit || len(idx) < 2*b.p.MinSamplesLeaf {
		return id
	}
	if b.p.MaxDepth > 0 && depth >= b.p.MaxDepth {
		return id
	}
	if constant(vals) {
		return id
	}
	s, ok := b.bestSplit(idx)
	if !ok {
		return id
	}
	left, right := partition(idx, b.cols[s.feature], s.threshold)
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = Node{Feature: s.feature, Threshold: s.threshold, Left: l, Right: r, Value: mean}
	return id
}

// bestSplit maximises sumL²/nL + sumR²/nR, which is equivalent to minimising
// the children's summed squared error.
func (b *builder) bestSplit(idx []int) (split, bool) {
	n := len(idx)
	var total float64
	for _, r := range idx {
		total += b.y[r]
	}
	best := split{score: total * total / float64(n)}
	found := false
	minLeaf := b.p.MinSamplesLeaf
	order := b.order[:n]
	for _, f := range b.candidateFeatures() {
		col := b.cols[f]
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return col[order[a]] < col[order[c]] })
		var sumL float64
		for i := 0; i < n-1; i++ {
			sumL += b.y[order[i]]
			nl, nr := i+1, n-i-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			lo, hi := col[order[i]], col[order[i+1]]
			if lo == hi {
				continue
			}
			sumR := total - sumL
			score := sumL*sumL/float64(nl) + sumR*sumR/float64(nr)
			if score > best.score {
				thr := lo + (hi-lo)/2
				if thr >= hi {
					thr = lo
				}
				best = split{feature: f, threshold: thr, score: score}
				found = true
			}
		}
	}
	return best, found
}

func (b *builder) candidateFeatures() []int {
	d := len(b.cols)
	if b.p.MaxFeatures >= d {
		all := make([]int, d)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return b.rng.Perm(d)[:b.p.MaxFeatures]
}

func partition(idx []int, col []float64, thr float64) (left, right []int) {
	left = make([]int, 0, len(idx))
	right = make([]int, 0, len(idx))
	for _, r := range idx {
		if col[r] <= thr {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
