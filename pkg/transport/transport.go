// Package transport is a thin HTTP abstraction for talking to SCIM service
// providers: default SCIM headers, bearer/basic auth, TLS and proxy
// configuration, and automatic retry on 429 Too Many Requests.
package transport

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	maxRetries        = 3
	defaultRetryAfter = 2 * time.Second
	minRetryAfter     = 1 * time.Second
)

// Options configures a Transport.
type Options struct {
	BaseURL     string
	Token       string
	Username    string
	Password    string
	TLSNoVerify bool
	Timeout     time.Duration
	Proxy       string
	CABundle    string
}

// Transport sends SCIM requests to a single service provider base URL.
type Transport struct {
	baseURL  string
	client   *http.Client
	token    string
	username string
	password string
}

// New builds a Transport from Options, configuring the underlying
// http.Client's TLS verification, CA bundle, and proxy per the options.
func New(opts Options) (*Transport, error) {
	tlsConfig := &tls.Config{}

	switch {
	case opts.CABundle != "":
		pool := x509.NewCertPool()
		pem, err := os.ReadFile(opts.CABundle)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("transport: no certificates found in CA bundle")
		}
		tlsConfig.RootCAs = pool
	case opts.TLSNoVerify:
		tlsConfig.InsecureSkipVerify = true
	}

	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		httpTransport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Transport{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   &http.Client{Transport: httpTransport, Timeout: timeout},
		token:    opts.Token,
		username: opts.Username,
		password: opts.Password,
	}, nil
}

// Response is a normalized HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   string

	jsonCache    map[string]interface{}
	jsonDecoded  bool
	jsonDecodeOK bool
}

// JSON parses and caches the response body as a JSON object. A response with
// an empty body decodes to a nil map with no error.
func (r *Response) JSON() (map[string]interface{}, error) {
	if r.jsonDecoded {
		if !r.jsonDecodeOK {
			return nil, errDecodedWithError
		}
		return r.jsonCache, nil
	}
	r.jsonDecoded = true

	if strings.TrimSpace(r.Body) == "" {
		r.jsonDecodeOK = true
		return nil, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(r.Body), &data); err != nil {
		return nil, err
	}
	r.jsonCache = data
	r.jsonDecodeOK = true
	return data, nil
}

var errDecodedWithError = errors.New("transport: response body previously failed to decode as JSON")

func (t *Transport) Get(path string) (*Response, error) {
	return t.request(http.MethodGet, path, nil, nil)
}

func (t *Transport) Post(path string, payload map[string]interface{}) (*Response, error) {
	return t.request(http.MethodPost, path, payload, nil)
}

func (t *Transport) Put(path string, payload map[string]interface{}) (*Response, error) {
	return t.request(http.MethodPut, path, payload, nil)
}

func (t *Transport) Patch(path string, payload map[string]interface{}) (*Response, error) {
	return t.request(http.MethodPatch, path, payload, nil)
}

func (t *Transport) Delete(path string) (*Response, error) {
	return t.request(http.MethodDelete, path, nil, nil)
}

// PostWithHeader sends a POST request with additional headers merged over
// the default SCIM headers, used by the probe's content-type-rejection
// diagnostic (e.g. sending application/json instead of application/scim+json).
func (t *Transport) PostWithHeader(path string, payload map[string]interface{}, extra http.Header) (*Response, error) {
	return t.request(http.MethodPost, path, payload, extra)
}

func (t *Transport) buildHeaders(extra http.Header) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/scim+json")
	h.Set("Content-Type", "application/scim+json")

	switch {
	case t.token != "":
		h.Set("Authorization", "Bearer "+t.token)
	case t.username != "" && t.password != "":
		creds := base64.StdEncoding.EncodeToString([]byte(t.username + ":" + t.password))
		h.Set("Authorization", "Basic "+creds)
	}

	for k, vs := range extra {
		for _, v := range vs {
			h.Set(k, v)
		}
	}
	return h
}

// request executes a single HTTP request with automatic retry on 429
// responses, sleeping for the duration given by Retry-After (or
// defaultRetryAfter if absent, floored at minRetryAfter), up to maxRetries
// retries (maxRetries+1 attempts in total). If the last attempt is still a
// 429, that response is returned without an error.
func (t *Transport) request(method, path string, payload map[string]interface{}, extraHeaders http.Header) (*Response, error) {
	targetURL := t.baseURL + path
	headers := t.buildHeaders(extraHeaders)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	rab := &retryAfterBackOff{wait: defaultRetryAfter}
	bo := backoff.WithMaxRetries(rab, maxRetries)

	var resp *Response
	err := backoff.Retry(func() error {
		r, err := t.do(method, targetURL, headers, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp = r

		if r.Status != http.StatusTooManyRequests {
			return nil
		}
		rab.wait = parseRetryAfter(r.Header.Get("Retry-After"))
		return errTooManyRequests
	}, bo)
	if err != nil && !errors.Is(err, errTooManyRequests) {
		return nil, err
	}

	return resp, nil
}

var errTooManyRequests = errors.New("transport: 429 too many requests")

func (t *Transport) do(method, targetURL string, headers http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, targetURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header = headers.Clone()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: string(raw)}, nil
}

// retryAfterBackOff is a backoff.BackOff whose wait duration is set
// externally before each retry, driven by the server's Retry-After header
// rather than an exponential schedule.
type retryAfterBackOff struct {
	wait time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration { return b.wait }
func (b *retryAfterBackOff) Reset()                     {}

var _ backoff.BackOff = (*retryAfterBackOff)(nil)

// parseRetryAfter parses a Retry-After header's integer-seconds form (RFC
// 7231 Section 7.1.3). Returns defaultRetryAfter if the header is missing or
// unparseable; never returns less than minRetryAfter.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultRetryAfter
	}
	d := time.Duration(seconds * float64(time.Second))
	if d < minRetryAfter {
		return minRetryAfter
	}
	return d
}

// RedactAuth returns a copy of header with any Authorization values (header
// name matched case-insensitively) replaced by a fixed redaction marker, for
// safe inclusion in logs or JSON output. The input header is never mutated.
func RedactAuth(header http.Header) http.Header {
	redacted := header.Clone()
	if redacted == nil {
		redacted = http.Header{}
	}
	for k := range redacted {
		if strings.EqualFold(k, "Authorization") {
			redacted[k] = []string{"***REDACTED***"}
		}
	}
	return redacted
}
