package feature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Autoregressive ties a coefficient to the observed or forecasted value Lag steps back
type Autoregressive struct {
	Lag int `json:"lag"`
}

func NewAutoregressive(lag int) *Autoregressive {
	return &Autoregressive{lag}
}

func (a Autoregressive) String() string {
	return fmt.Sprintf("ar_lag_%02d", a.Lag)
}

func (a Autoregressive) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "lag":
		return strconv.Itoa(a.Lag), true
	}
	return "", false
}

func (a Autoregressive) Type() FeatureType {
	return FeatureTypeAutoregressive
}

func (a Autoregressive) Decode() map[string]string {
	res := make(map[string]string)
	res["lag"] = strconv.Itoa(a.Lag)
	return res
}

func (a *Autoregressive) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Lag string `json:"lag"`
	}
	err := json.Unmarshal(data, &labelStr)
	if err != nil {
		return err
	}
	a.Lag, err = strconv.Atoi(labelStr.Lag)
	return err
}
