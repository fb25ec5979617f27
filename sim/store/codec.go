package store

import (
	"encoding/json"
	"errors"

	"github.com/hank-transition/hank-transition/sim"
)

var errMissingRunID = errors.New("result has no run ID")

func encodeResult(res *sim.Result) ([]byte, error) {
	if res.RunID == "" {
		return nil, errMissingRunID
	}
	return json.Marshal(res)
}

func decodeResult(data []byte) (*sim.Result, error) {
	var res sim.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
