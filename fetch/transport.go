package fetch

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport is an http.RoundTripper that applies the Client's retry and
// timeout policy, so SDK-managed clients share the same outbound contract as
// direct fetch callers. Request bodies are buffered for replay across
// attempts.
type Transport struct {
	client *Client
}

var _ http.RoundTripper = (*Transport)(nil)

// NewTransport wraps a Client as an http.RoundTripper.
func NewTransport(client *Client) *Transport {
	return &Transport{client: client}
}

// RoundTrip implements http.RoundTripper. Non-2xx responses are returned to
// the caller unchanged once the retry budget is spent on 429s and timeouts.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	resp, err := t.client.roundTrip(req.Context(), &Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	header := resp.Header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// NewHTTPClient returns an *http.Client routing through the resilient
// transport. Handed to provider SDKs so their calls retry like ours.
func NewHTTPClient(client *Client) *http.Client {
	return &http.Client{Transport: NewTransport(client)}
}
