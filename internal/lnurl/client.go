package lnurl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/conv"
	"github.com/sandevgo/lnshell/pkg/log"
	"github.com/sandevgo/lnshell/pkg/retry"
)

const maxResponseSize = 1 << 20 // 1MB limit

var errInvalidResponse = errors.New("invalid lnurl response")

type httpStatusError struct {
	Code int
	Text string
}

func (e *httpStatusError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Text)
}

type Client struct {
	client  *http.Client
	retrier *retry.Retrier
}

func NewClient(cfg *config.LNURLConfig) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: cfg.Timeout}, retry.WithMaxRetries(cfg.ResolveRetries))
}

func NewClientWithHTTP(client *http.Client, retrier *retry.Retrier) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if retrier == nil {
		retrier = retry.WithMaxRetries(0)
	}
	return &Client{client: client, retrier: retrier}
}

// Resolve fetches the parameters behind an LNURL or lightning address and
// classifies them. Only this idempotent GET is retried.
func (c *Client) Resolve(ctx context.Context, input string) (core.InputType, error) {
	endpoint, lnAddress, err := Endpoint(input)
	if err != nil {
		return nil, err
	}

	logger := log.FromCtx(ctx)
	logger.Debug().Str("endpoint", endpoint).Msg("resolving lnurl")

	var params paramsResponse
	err = c.retrier.Do(ctx, func() error {
		err := c.getJSON(ctx, endpoint, &params)
		if isPermanent(err) {
			return retry.Stop(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lnurl: %w", err)
	}

	if err := params.err(); err != nil {
		return core.InputLnURLError{Reason: conv.PlainText(params.Reason)}, nil
	}

	domain := hostOf(endpoint)
	if _, err := url.Parse(params.Callback); err != nil || params.Callback == "" {
		return nil, fmt.Errorf("lnurl service %s returned an invalid callback", domain)
	}

	switch params.Tag {
	case TagPayRequest:
		if params.MinSendable > params.MaxSendable {
			return nil, fmt.Errorf("lnurl service %s returned minSendable above maxSendable", domain)
		}
		return core.InputLnURLPay{Data: core.LnURLPayRequestData{
			Callback:       params.Callback,
			MinSendable:    lnwire.MilliSatoshi(params.MinSendable),
			MaxSendable:    lnwire.MilliSatoshi(params.MaxSendable),
			MetadataStr:    params.metadataString(),
			CommentAllowed: params.CommentAllowed,
			Domain:         domain,
			LnAddress:      lnAddress,
		}}, nil

	case TagWithdrawRequest:
		if params.MinWithdrawable > params.MaxWithdrawable {
			return nil, fmt.Errorf("lnurl service %s returned minWithdrawable above maxWithdrawable", domain)
		}
		return core.InputLnURLWithdraw{Data: core.LnURLWithdrawRequestData{
			Callback:           params.Callback,
			K1:                 params.K1,
			DefaultDescription: conv.PlainText(params.DefaultDescription),
			MinWithdrawable:    lnwire.MilliSatoshi(params.MinWithdrawable),
			MaxWithdrawable:    lnwire.MilliSatoshi(params.MaxWithdrawable),
			Domain:             domain,
		}}, nil
	}

	return nil, fmt.Errorf("unsupported lnurl tag %q", params.Tag)
}

// Withdraw hands bolt11 to the withdraw callback (LUD-03). A service refusal
// is returned as *ServiceError.
func (c *Client) Withdraw(ctx context.Context, data core.LnURLWithdrawRequestData, bolt11 string) error {
	callback, err := withQuery(data.Callback, map[string]string{
		"k1": data.K1,
		"pr": bolt11,
	})
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := c.getJSON(ctx, callback, &resp); err != nil {
		return err
	}
	if err := resp.err(); err != nil {
		return sanitized(err)
	}
	if !strings.EqualFold(resp.Status, statusOK) {
		return fmt.Errorf("unexpected withdraw callback status %q", resp.Status)
	}
	return nil
}

// RequestInvoice asks the pay callback (LUD-06) for an invoice of amount.
// The comment is sent only when the service accepts comments (LUD-12).
func (c *Client) RequestInvoice(
	ctx context.Context,
	data core.LnURLPayRequestData,
	amount lnwire.MilliSatoshi,
	comment string,
) (string, core.SuccessAction, error) {
	query := map[string]string{
		"amount": strconv.FormatUint(uint64(amount), 10),
	}
	if comment != "" && data.CommentAllowed > 0 {
		if r := []rune(comment); len(r) > data.CommentAllowed {
			comment = string(r[:data.CommentAllowed])
		}
		query["comment"] = comment
	}

	callback, err := withQuery(data.Callback, query)
	if err != nil {
		return "", nil, err
	}

	var resp invoiceResponse
	if err := c.getJSON(ctx, callback, &resp); err != nil {
		return "", nil, err
	}
	if err := resp.err(); err != nil {
		return "", nil, sanitized(err)
	}
	if resp.PR == "" {
		return "", nil, errors.New("lnurl service returned no invoice")
	}

	return resp.PR, successAction(resp.SuccessAction), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", core.AppUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET request error: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode >= 400 {
		return statusError(resp, body)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errInvalidResponse, err)
	}
	return nil
}

// statusError turns a failed HTTP response into an error, preferring an LNURL
// error body, then a text rendering of an HTML page.
func statusError(resp *http.Response, body io.Reader) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return &httpStatusError{Code: resp.StatusCode}
	}

	var status statusResponse
	if json.Unmarshal(raw, &status) == nil {
		if err := status.err(); err != nil {
			return sanitized(err)
		}
	}

	text := string(raw)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		if t, err := conv.HTMLToText(strings.NewReader(text)); err == nil {
			text = t
		}
	}
	return &httpStatusError{Code: resp.StatusCode, Text: conv.PlainText(text)}
}

func isPermanent(err error) bool {
	if err == nil {
		return false
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return true
	}
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return httpErr.Code < 500
	}
	return errors.Is(err, errInvalidResponse)
}

func sanitized(err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return &ServiceError{Reason: conv.PlainText(svcErr.Reason)}
	}
	return err
}

func successAction(sa *successActionResponse) core.SuccessAction {
	if sa == nil {
		return nil
	}
	switch strings.ToLower(sa.Tag) {
	case "message":
		return core.MessageSuccessAction{Message: conv.PlainText(sa.Message)}
	case "url":
		return core.URLSuccessAction{
			Description: conv.PlainText(sa.Description),
			URL:         sa.URL,
		}
	case "aes":
		// The ciphertext is not decrypted; the description is still useful.
		return core.MessageSuccessAction{Message: conv.PlainText(sa.Description)}
	}
	return nil
}

func withQuery(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid lnurl callback: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
