package inference

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// modelOutputs lists the output layers fetched per model name.
var modelOutputs = map[string][]string{
	ModelPalmDetection:     {OutputRegressors, OutputScores},
	ModelHandLandmarks:     {OutputLandmarks, OutputScore, OutputHandedness},
	ModelGestureEmbedder:   {OutputEmbedding},
	ModelGestureClassifier: {OutputClasses},
}

// DNNBackend runs models through the gocv DNN module. Loading happens once
// in NewDNNBackend; afterwards the nets are only read, guarded per-model
// because a gocv Net forward pass is not reentrant.
type DNNBackend struct {
	models map[string]*dnnModel
}

type dnnModel struct {
	name string
	net  gocv.Net
	mu   sync.Mutex
}

// NewDNNBackend loads the given model files (name -> path). Every listed
// model must load; a failure releases already-loaded nets and returns an
// error so engine start can fail cleanly.
func NewDNNBackend(paths map[string]string) (*DNNBackend, error) {
	b := &DNNBackend{models: make(map[string]*dnnModel)}

	for name, path := range paths {
		net := gocv.ReadNet(path, "")
		if net.Empty() {
			b.Close()
			return nil, fmt.Errorf("load model %s from %s: empty network", name, path)
		}
		b.models[name] = &dnnModel{name: name, net: net}
	}

	return b, nil
}

// Model returns the named model handle.
func (b *DNNBackend) Model(name string) (Model, error) {
	m, ok := b.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return m, nil
}

// Close releases all loaded networks.
func (b *DNNBackend) Close() error {
	var first error
	for _, m := range b.models {
		if err := m.net.Close(); err != nil && first == nil {
			first = err
		}
	}
	b.models = nil
	return first
}

// Infer runs a forward pass and collects the model's named outputs.
func (m *dnnModel) Infer(input Tensor) (map[string]Tensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, err := tensorToMat(input)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.name, err)
	}
	defer blob.Close()

	m.net.SetInput(blob, "")

	names, ok := modelOutputs[m.name]
	if !ok {
		return nil, fmt.Errorf("model %s: no registered outputs", m.name)
	}

	mats := m.net.ForwardLayers(names)
	outputs := make(map[string]Tensor, len(mats))
	for i, mat := range mats {
		t, convErr := matToTensor(mat)
		mat.Close()
		if convErr != nil {
			return nil, fmt.Errorf("model %s output %s: %w", m.name, names[i], convErr)
		}
		outputs[names[i]] = t
	}

	return outputs, nil
}

func tensorToMat(t Tensor) (gocv.Mat, error) {
	if t.Len() != len(t.Data) {
		return gocv.Mat{}, fmt.Errorf("tensor shape %v does not match %d values", t.Shape, len(t.Data))
	}

	bytes := make([]byte, 4*len(t.Data))
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(bytes[4*i:], math.Float32bits(v))
	}

	mat, err := gocv.NewMatWithSizesFromBytes(t.Shape, gocv.MatTypeCV32F, bytes)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("build input mat: %w", err)
	}
	return mat, nil
}

func matToTensor(mat gocv.Mat) (Tensor, error) {
	data, err := mat.DataPtrFloat32()
	if err != nil {
		return Tensor{}, fmt.Errorf("read output mat: %w", err)
	}

	out := Tensor{
		Data:  make([]float32, len(data)),
		Shape: mat.Size(),
	}
	copy(out.Data, data)
	return out, nil
}
