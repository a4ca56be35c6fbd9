// Package digits resolves the 6-vs-9 confusion left behind by the base OCR
// pass. It runs a small feed-forward net over the preprocessed cell image;
// weights are exported by the (out-of-scope) trainer to a JSON file.
package digits

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"sync"

	"gonum.org/v1/gonum/mat"
)

const (
	inputSide = 28
	inputSize = inputSide * inputSide
	classSix  = 0
	classNine = 1
)

// weightsFile is the on-disk export format: row-major flattened matrices.
type weightsFile struct {
	Hidden int       `json:"hidden"`
	W1     []float64 `json:"w1"` // inputSize x hidden
	B1     []float64 `json:"b1"` // hidden
	W2     []float64 `json:"w2"` // hidden x 2
	B2     []float64 `json:"b2"` // 2
}

type network struct {
	w1, b1, w2, b2 *mat.Dense
}

// Classifier is a binary six/nine classifier. Safe for concurrent use;
// Reload swaps the network atomically under a write lock.
type Classifier struct {
	mu  sync.RWMutex
	net *network
}

// Load reads a weights file and builds a classifier.
func Load(path string) (*Classifier, error) {
	c := &Classifier{}
	if err := c.Reload(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the network with freshly loaded weights. On failure the
// previous network stays in place.
func (c *Classifier) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read weights: %w", err)
	}
	var wf weightsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("decode weights: %w", err)
	}
	net, err := buildNetwork(&wf)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.net = net
	c.mu.Unlock()
	return nil
}

func buildNetwork(wf *weightsFile) (*network, error) {
	if wf.Hidden <= 0 {
		return nil, fmt.Errorf("weights: hidden size %d invalid", wf.Hidden)
	}
	if len(wf.W1) != inputSize*wf.Hidden || len(wf.B1) != wf.Hidden ||
		len(wf.W2) != wf.Hidden*2 || len(wf.B2) != 2 {
		return nil, fmt.Errorf("weights: shape mismatch for hidden=%d", wf.Hidden)
	}
	return &network{
		w1: mat.NewDense(inputSize, wf.Hidden, wf.W1),
		b1: mat.NewDense(1, wf.Hidden, wf.B1),
		w2: mat.NewDense(wf.Hidden, 2, wf.W2),
		b2: mat.NewDense(1, 2, wf.B2),
	}, nil
}

// Predict classifies a stat-cell image as "6" or "9".
func (c *Classifier) Predict(cell image.Image) (string, error) {
	c.mu.RLock()
	net := c.net
	c.mu.RUnlock()
	if net == nil {
		return "", fmt.Errorf("no model loaded")
	}

	x := mat.NewDense(1, inputSize, prepare(cell))

	var h mat.Dense
	h.Mul(x, net.w1)
	h.Add(&h, net.b1)
	h.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, &h)

	var out mat.Dense
	out.Mul(&h, net.w2)
	out.Add(&out, net.b2)

	if out.At(0, classNine) > out.At(0, classSix) {
		return "9", nil
	}
	return "6", nil
}
