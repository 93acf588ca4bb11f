package feature

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var ErrUnknownFourierComp = errors.New("unknown fourier component")

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// Seasonality is one fourier component of a pattern repeating every period
type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Order       int         `json:"order"`
}

func NewSeasonality(name string, fcomp FourierComp, order int) *Seasonality {
	return &Seasonality{Name: name, FourierComp: fcomp, Order: order}
}

// Values evaluates the component at each position, where a position counts periods into
// the cycle and period is the cycle length
func (s Seasonality) Values(pos []float64, period float64) []float64 {
	fn := math.Sin
	if s.FourierComp == FourierCompCos {
		fn = math.Cos
	}
	omega := 2.0 * math.Pi * float64(s.Order) / period
	vals := make([]float64, len(pos))
	for i, p := range pos {
		vals[i] = fn(omega * p)
	}
	return vals
}

func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

func (s Seasonality) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return s.Name, true
	case "fourier_component":
		return string(s.FourierComp), true
	case "order":
		return strconv.Itoa(s.Order), true
	}
	return "", false
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

func (s Seasonality) Decode() map[string]string {
	return map[string]string{
		"name":              s.Name,
		"fourier_component": string(s.FourierComp),
		"order":             strconv.Itoa(s.Order),
	}
}

// UnmarshalJSON reads the label map of a seasonality weight. The order is stored as a
// string like every other label.
func (s *Seasonality) UnmarshalJSON(data []byte) error {
	var labels map[string]string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}

	comp := FourierComp(labels["fourier_component"])
	if comp != FourierCompSin && comp != FourierCompCos {
		return fmt.Errorf("%q, %w", comp, ErrUnknownFourierComp)
	}
	order, err := strconv.Atoi(labels["order"])
	if err != nil {
		return fmt.Errorf("seasonality order, %w", err)
	}

	s.Name = labels["name"]
	s.FourierComp = comp
	s.Order = order
	return nil
}
