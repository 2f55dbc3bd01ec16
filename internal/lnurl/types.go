package lnurl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	TagPayRequest      = "payRequest"
	TagWithdrawRequest = "withdrawRequest"

	statusOK    = "OK"
	statusERROR = "ERROR"
)

// ServiceError is an LNURL service answering {"status":"ERROR"}.
type ServiceError struct {
	Reason string
}

func (e *ServiceError) Error() string {
	if e.Reason == "" {
		return "lnurl service returned an error"
	}
	return "lnurl service error: " + e.Reason
}

// msat decodes a millisatoshi amount that services send either as a JSON
// number or as a string.
type msat uint64

func (m *msat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("invalid millisatoshi amount %s", string(b))
	}
	*m = msat(v)
	return nil
}

type statusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r statusResponse) err() error {
	if strings.EqualFold(r.Status, statusERROR) {
		return &ServiceError{Reason: r.Reason}
	}
	return nil
}

// paramsResponse is the union of the payRequest and withdrawRequest bodies.
type paramsResponse struct {
	statusResponse
	Tag      string `json:"tag"`
	Callback string `json:"callback"`

	MinSendable    msat            `json:"minSendable"`
	MaxSendable    msat            `json:"maxSendable"`
	Metadata       json.RawMessage `json:"metadata"`
	CommentAllowed int             `json:"commentAllowed"`

	K1                 string `json:"k1"`
	DefaultDescription string `json:"defaultDescription"`
	MinWithdrawable    msat   `json:"minWithdrawable"`
	MaxWithdrawable    msat   `json:"maxWithdrawable"`
}

type successActionResponse struct {
	Tag         string `json:"tag"`
	Message     string `json:"message"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type invoiceResponse struct {
	statusResponse
	PR            string                 `json:"pr"`
	Routes        []json.RawMessage      `json:"routes"`
	SuccessAction *successActionResponse `json:"successAction"`
}

// metadataString returns the metadata as the raw JSON string the service
// signed. Some services send the array itself instead of a string.
func (p paramsResponse) metadataString() string {
	var s string
	if err := json.Unmarshal(p.Metadata, &s); err == nil {
		return s
	}
	return string(p.Metadata)
}
