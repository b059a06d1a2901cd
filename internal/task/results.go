package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Matgenix/abiflows/internal/abinput"
)

// ErrNoWorkdir is returned by result accessors before SetWorkdir was called.
var ErrNoWorkdir = errors.New("task: no working directory bound")

// File names the ab initio wrapper writes into each run directory.
const (
	finalStructureFile = "final_structure.json"
	elasticTensorFile  = "elastic_tensor.json"
)

// ElasticTensor is the 6x6 Voigt-notation elastic tensor produced by the
// derivative-database analysis.
type ElasticTensor struct {
	Tensor [6][6]float64 `json:"tensor"`
	Unit   string        `json:"unit"`
}

// ExtendedMap flattens the tensor into the mapping shape persisted by the
// database-insertion step.
func (e *ElasticTensor) ExtendedMap() map[string]any {
	rows := make([][]float64, 6)
	for i := range e.Tensor {
		rows[i] = make([]float64, 6)
		copy(rows[i], e.Tensor[i][:])
	}
	return map[string]any{
		"elastic_tensor": rows,
		"unit":           e.Unit,
	}
}

// FinalStructure reads the relaxed structure from the bound run directory.
func (t *Task) FinalStructure() (*abinput.Structure, error) {
	if t.workdir == "" {
		return nil, ErrNoWorkdir
	}
	path := filepath.Join(t.workdir, finalStructureFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read final structure: %w", err)
	}
	var s abinput.Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

// ElasticTensor reads the elastic tensor from the bound run directory.
func (t *Task) ElasticTensor() (*ElasticTensor, error) {
	if t.workdir == "" {
		return nil, ErrNoWorkdir
	}
	path := filepath.Join(t.workdir, elasticTensorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read elastic tensor: %w", err)
	}
	var e ElasticTensor
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &e, nil
}
