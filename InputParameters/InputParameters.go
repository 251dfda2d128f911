package InputParameters

import (
	"fmt"
	"io/ioutil"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type EikonalParameters struct {
	Title          string      `yaml:"Title"`
	Dimension      int         `yaml:"Dimension"` // 2 for triangles, 3 for tetrahedra
	Sources        []int       `yaml:"Sources"`   // Node indices with zero arrival time
	Epsilon        float64     `yaml:"Epsilon"`
	MaxSweeps      int         `yaml:"MaxSweeps"`
	Parallel       bool        `yaml:"Parallel"`
	ParallelDegree int         `yaml:"ParallelDegree"`
	Anisotropy     [][]float64 `yaml:"Anisotropy"` // Rows of the SPD speed matrix, empty is isotropic
	FieldName      string      `yaml:"FieldName"`  // Name of the point data written with the result
}

const ExampleFile = `
########################################
Title: "Unit square"
Dimension: 2
Sources: [0]
Epsilon: 1.e-6
MaxSweeps: 100000
Parallel: true
ParallelDegree: 4
Anisotropy:
  - [1, 0]
  - [0, 1]
FieldName: u
########################################
`

func ReadFile(filename string) (ip *EikonalParameters, err error) {
	var data []byte
	if data, err = ioutil.ReadFile(filename); err != nil {
		return
	}
	ip = &EikonalParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return
}

func (ip *EikonalParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Defaults fills every unset field
func (ip *EikonalParameters) Defaults() {
	if ip.Dimension == 0 {
		ip.Dimension = 2
	}
	if ip.Epsilon == 0 {
		ip.Epsilon = 1e-6
	}
	if ip.MaxSweeps == 0 {
		ip.MaxSweeps = 100000
	}
	if len(ip.FieldName) == 0 {
		ip.FieldName = "u"
	}
}

func (ip *EikonalParameters) Validate() error {
	switch {
	case ip.Dimension != 2 && ip.Dimension != 3:
		return fmt.Errorf("Dimension must be 2 or 3, got %d", ip.Dimension)
	case !(ip.Epsilon > 0):
		return fmt.Errorf("Epsilon must be positive, got %g", ip.Epsilon)
	case ip.MaxSweeps < 1:
		return fmt.Errorf("MaxSweeps must be positive, got %d", ip.MaxSweeps)
	case ip.ParallelDegree < 0:
		return fmt.Errorf("ParallelDegree must not be negative, got %d", ip.ParallelDegree)
	}
	if len(ip.Anisotropy) != 0 && len(ip.Anisotropy) != ip.Dimension {
		return fmt.Errorf("Anisotropy must have %d rows, got %d", ip.Dimension, len(ip.Anisotropy))
	}
	for i, s := range ip.Sources {
		if s < 0 {
			return fmt.Errorf("Sources[%d] is negative: %d", i, s)
		}
	}
	return nil
}

func (ip *EikonalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("%v\t\t\t\t= Sources\n", ip.Sources)
	fmt.Printf("%8.2e\t\t= Epsilon\n", ip.Epsilon)
	fmt.Printf("[%d]\t\t\t= MaxSweeps\n", ip.MaxSweeps)
	fmt.Printf("[%v]\t\t\t= Parallel\n", ip.Parallel)
	fmt.Printf("[%d]\t\t\t\t= ParallelDegree\n", ip.ParallelDegree)
	if len(ip.Anisotropy) != 0 {
		for i, row := range ip.Anisotropy {
			fmt.Printf("Anisotropy[%d] = %v\n", i, row)
		}
	}
	fmt.Printf("[%s]\t\t\t\t= FieldName\n", ip.FieldName)
}
