package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// GrowthLinear is the only supported trend
const GrowthLinear = "linear"

// Growth is a deterministic trend term counted in cadence steps after the end of training
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{Name: name}
}

// Linear returns the linear trend feature
func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

// Values returns the trend of the first rows forecast steps. The h-th step has the value h.
func (g Growth) Values(rows int) []float64 {
	vals := make([]float64, rows)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	return vals
}

func (g Growth) String() string {
	return "growth_" + g.Name
}

func (g Growth) Get(label string) (string, bool) {
	if strings.ToLower(label) == "name" {
		return g.Name, true
	}
	return "", false
}

func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

func (g Growth) Decode() map[string]string {
	return map[string]string{"name": g.Name}
}

// UnmarshalJSON reads the label map of a growth weight
func (g *Growth) UnmarshalJSON(data []byte) error {
	var labels map[string]string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	name, exists := labels["name"]
	if !exists || name == "" {
		return fmt.Errorf("growth, %w", ErrMissingLabel)
	}
	g.Name = name
	return nil
}
