package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Exogenous is an explanatory variable supplied by the caller, named after its column in
// the feature schema.
type Exogenous struct {
	Name string `json:"name"`
}

func NewExogenous(name string) *Exogenous {
	return &Exogenous{name}
}

func (e Exogenous) String() string {
	return fmt.Sprintf("exog_%s", e.Name)
}

func (e Exogenous) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

func (e Exogenous) Type() FeatureType {
	return FeatureTypeExogenous
}

func (e Exogenous) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = e.Name
	return res
}

func (e *Exogenous) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	e.Name = labelStr.Name
	return nil
}
