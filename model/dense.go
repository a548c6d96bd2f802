// SPDX-License-Identifier: EPL-2.0

package model

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

// Artifact is the on-disk form of a feed-forward network, msgpack encoded.
// Inputs are standardised as (x - Mean) / Scale before the first layer.
type Artifact struct {
	Name   string    `msgpack:"name"`
	Input  int       `msgpack:"input"`
	Mean   []float64 `msgpack:"mean,omitempty"`
	Scale  []float64 `msgpack:"scale,omitempty"`
	Layers []Layer   `msgpack:"layers"`
}

// Layer is a fully connected layer y = act(x·W + b). Weights are stored
// row-major with shape [In x Out].
type Layer struct {
	In         int       `msgpack:"in"`
	Out        int       `msgpack:"out"`
	Weights    []float64 `msgpack:"weights"`
	Bias       []float64 `msgpack:"bias"`
	Activation string    `msgpack:"activation"`
}

type denseLayer struct {
	w   *mat.Dense // In x Out
	b   *mat.VecDense
	act activation
}

// Dense scores features with an in-process feed-forward network. It holds
// no mutable state and is safe for concurrent use.
type Dense struct {
	name   string
	input  int
	mean   []float64
	scale  []float64
	layers []denseLayer
}

func NewDense(a Artifact) (*Dense, error) {
	if a.Input <= 0 {
		return nil, fmt.Errorf("%w: input size %d", ErrInvalidModel, a.Input)
	}
	if len(a.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidModel)
	}
	if a.Mean != nil && len(a.Mean) != a.Input {
		return nil, fmt.Errorf("%w: %d means for %d inputs", ErrInvalidModel, len(a.Mean), a.Input)
	}
	if a.Scale != nil && len(a.Scale) != a.Input {
		return nil, fmt.Errorf("%w: %d scales for %d inputs", ErrInvalidModel, len(a.Scale), a.Input)
	}

	d := &Dense{name: a.Name, input: a.Input, mean: a.Mean, scale: a.Scale}

	width := a.Input
	for i, l := range a.Layers {
		switch {
		case l.In != width:
			return nil, fmt.Errorf("%w: layer %d takes %d values, previous layer yields %d", ErrInvalidModel, i, l.In, width)
		case l.Out <= 0:
			return nil, fmt.Errorf("%w: layer %d has %d outputs", ErrInvalidModel, i, l.Out)
		case len(l.Weights) != l.In*l.Out:
			return nil, fmt.Errorf("%w: layer %d has %d weights, want %d", ErrInvalidModel, i, len(l.Weights), l.In*l.Out)
		case len(l.Bias) != l.Out:
			return nil, fmt.Errorf("%w: layer %d has %d biases, want %d", ErrInvalidModel, i, len(l.Bias), l.Out)
		}

		act, err := parseActivation(l.Activation)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %w", ErrInvalidModel, i, err)
		}

		d.layers = append(d.layers, denseLayer{
			w:   mat.NewDense(l.In, l.Out, l.Weights),
			b:   mat.NewVecDense(l.Out, l.Bias),
			act: act,
		})
		width = l.Out
	}

	return d, nil
}

// LoadDense reads a msgpack artifact from path.
func LoadDense(path string) (*Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var a Artifact
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidModel, path, err)
	}
	if a.Name == "" {
		a.Name = path
	}

	return NewDense(a)
}

// SaveDense writes a to path in the format LoadDense reads.
func SaveDense(path string, a Artifact) error {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func (d *Dense) Name() string   { return d.name }
func (d *Dense) InputSize() int { return d.input }

func (d *Dense) Score(ctx context.Context, features []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != d.input {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(features), d.input)
	}

	x := make([]float64, d.input)
	for i, v := range features {
		if d.mean != nil {
			v -= d.mean[i]
		}
		if d.scale != nil && d.scale[i] != 0 {
			v /= d.scale[i]
		}
		x[i] = v
	}

	cur := mat.NewVecDense(len(x), x)
	for _, l := range d.layers {
		_, out := l.w.Dims()
		next := mat.NewVecDense(out, nil)
		next.MulVec(l.w.T(), cur)
		next.AddVec(next, l.b)
		l.act(next.RawVector().Data)
		cur = next
	}

	return cur.RawVector().Data, nil
}

type activation func([]float64)

func parseActivation(name string) (activation, error) {
	switch name {
	case "", "linear":
		return func([]float64) {}, nil
	case "relu":
		return func(v []float64) {
			for i := range v {
				v[i] = math.Max(0, v[i])
			}
		}, nil
	case "tanh":
		return func(v []float64) {
			for i := range v {
				v[i] = math.Tanh(v[i])
			}
		}, nil
	case "sigmoid":
		return func(v []float64) {
			for i := range v {
				v[i] = 1 / (1 + math.Exp(-v[i]))
			}
		}, nil
	case "softmax":
		return softmax, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

func softmax(v []float64) {
	peak := math.Inf(-1)
	for _, x := range v {
		peak = math.Max(peak, x)
	}

	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - peak)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
