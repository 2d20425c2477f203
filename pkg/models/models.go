package models

import "errors"

var ErrTextRequired = errors.New("text must be a string")

// CheckRequest is the body of POST /check. Text is a pointer so that a
// missing or null field can be told apart from an empty string.
type CheckRequest struct {
	Text *string `json:"text"`
}

func (r CheckRequest) Validate() error {
	if r.Text == nil {
		return ErrTextRequired
	}
	return nil
}

type CheckResponse struct {
	Match bool `json:"match"`
}

type StrategyResponse struct {
	Strategy string `json:"strategy"`
}
