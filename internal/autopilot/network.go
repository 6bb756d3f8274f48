package autopilot

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Layer is one fully connected layer. W holds Out rows of In weights.
type Layer struct {
	In  int       `json:"in"`
	Out int       `json:"out"`
	W   []float64 `json:"w"`
	B   []float64 `json:"b"`
}

func (l *Layer) row(o int) []float64 {
	return l.W[o*l.In : (o+1)*l.In]
}

// Network is a feed-forward MLP with ReLU hidden layers and a linear output.
type Network struct {
	Layers []Layer `json:"layers"`
}

// NewNetwork creates a network with He-initialized weights.
// sizes lists the width of every layer including input and output.
func NewNetwork(sizes []int, rng *rand.Rand) *Network {
	n := &Network{}
	for i := 0; i+1 < len(sizes); i++ {
		in, out := sizes[i], sizes[i+1]
		l := Layer{
			In:  in,
			Out: out,
			W:   make([]float64, in*out),
			B:   make([]float64, out),
		}
		std := math.Sqrt(2 / float64(in))
		for j := range l.W {
			l.W[j] = rng.NormFloat64() * std
		}
		n.Layers = append(n.Layers, l)
	}
	return n
}

// Forward returns the output for x.
func (n *Network) Forward(x []float64) []float64 {
	acts := n.activations(x)
	return acts[len(acts)-1]
}

// activations returns the input followed by every layer's output.
func (n *Network) activations(x []float64) [][]float64 {
	acts := make([][]float64, 0, len(n.Layers)+1)
	acts = append(acts, x)
	for li := range n.Layers {
		l := &n.Layers[li]
		in := acts[li]
		out := make([]float64, l.Out)
		for o := 0; o < l.Out; o++ {
			v := floats.Dot(l.row(o), in) + l.B[o]
			if li < len(n.Layers)-1 && v < 0 {
				v = 0
			}
			out[o] = v
		}
		acts = append(acts, out)
	}
	return acts
}

// CopyFrom overwrites this network's parameters with src's.
func (n *Network) CopyFrom(src *Network) {
	n.Layers = make([]Layer, len(src.Layers))
	for i, l := range src.Layers {
		n.Layers[i] = Layer{
			In:  l.In,
			Out: l.Out,
			W:   append([]float64(nil), l.W...),
			B:   append([]float64(nil), l.B...),
		}
	}
}

// Clone returns a deep copy.
func (n *Network) Clone() *Network {
	c := &Network{}
	c.CopyFrom(n)
	return c
}

type gradients struct {
	w [][]float64
	b [][]float64
}

func (n *Network) zeroGrads() gradients {
	g := gradients{
		w: make([][]float64, len(n.Layers)),
		b: make([][]float64, len(n.Layers)),
	}
	for i, l := range n.Layers {
		g.w[i] = make([]float64, len(l.W))
		g.b[i] = make([]float64, len(l.B))
	}
	return g
}

// backward accumulates into g the gradient of the loss whose derivative
// with respect to the output is outGrad.
func (n *Network) backward(acts [][]float64, outGrad []float64, g gradients) {
	delta := outGrad
	for li := len(n.Layers) - 1; li >= 0; li-- {
		l := &n.Layers[li]
		in := acts[li]

		for o := 0; o < l.Out; o++ {
			if delta[o] == 0 {
				continue
			}
			g.b[li][o] += delta[o]
			floats.AddScaled(g.w[li][o*l.In:(o+1)*l.In], delta[o], in)
		}

		if li == 0 {
			break
		}
		prev := make([]float64, l.In)
		for o := 0; o < l.Out; o++ {
			if delta[o] != 0 {
				floats.AddScaled(prev, delta[o], l.row(o))
			}
		}
		// ReLU derivative on the previous layer's output.
		for i, a := range in {
			if a <= 0 {
				prev[i] = 0
			}
		}
		delta = prev
	}
}

// apply takes one SGD step with the mean of g over batch samples,
// rescaling it so its global L2 norm does not exceed clip (when clip > 0).
// It returns the norm before clipping.
func (n *Network) apply(g gradients, lr, clip float64, batch int) float64 {
	scale := 1 / float64(batch)

	var sq float64
	for i := range g.w {
		wn := floats.Norm(g.w[i], 2)
		bn := floats.Norm(g.b[i], 2)
		sq += wn*wn + bn*bn
	}
	norm := math.Sqrt(sq) * scale
	if clip > 0 && norm > clip {
		scale *= clip / norm
	}

	for i := range n.Layers {
		floats.AddScaled(n.Layers[i].W, -lr*scale, g.w[i])
		floats.AddScaled(n.Layers[i].B, -lr*scale, g.b[i])
	}
	return norm
}
