package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestParse(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Dimension: 3
Sources: [0, 7]
Epsilon: 1.e-8
Parallel: true
ParallelDegree: 8
Anisotropy:
  - [4, 0, 0]
  - [0, 1, 0]
  - [0, 0, 1]
`)
	var input EikonalParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	input.Defaults()
	assert.Equal(t, input.Dimension, 3)
	assert.Equal(t, input.Sources, []int{0, 7})
	assert.Equal(t, input.Epsilon, 1.e-8)
	assert.Equal(t, input.Anisotropy[0][0], 4.)
	// Unset fields pick up the defaults
	assert.Equal(t, input.MaxSweeps, 100000)
	assert.Equal(t, input.FieldName, "u")
	assert.Equal(t, input.Validate(), nil)
	input.Print()
}

func TestExampleFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "input.yaml")
	if err := os.WriteFile(fileName, []byte(ExampleFile), 0644); err != nil {
		panic(err)
	}
	ip, err := ReadFile(fileName)
	assert.Equal(t, err, nil)
	assert.Equal(t, ip.Title, "Unit square")
	assert.Equal(t, ip.ParallelDegree, 4)
	assert.Equal(t, ip.Validate(), nil)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, err != nil, true)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		ip   EikonalParameters
	}{
		{"dimension", EikonalParameters{Dimension: 4}},
		{"epsilon", EikonalParameters{Epsilon: -1}},
		{"sweeps", EikonalParameters{MaxSweeps: -3}},
		{"degree", EikonalParameters{ParallelDegree: -1}},
		{"anisotropy rows", EikonalParameters{Anisotropy: [][]float64{{1, 0, 0}}}},
		{"negative source", EikonalParameters{Sources: []int{2, -1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.ip.Defaults()
			assert.Equal(t, tc.ip.Validate() != nil, true)
		})
	}
}
