package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"lispy/engine/reader"
	"lispy/lib/value"
)

// EvalResponse is the body of a successful /eval.
type EvalResponse struct {
	Result string `json:"result"`
	Pretty string `json:"pretty"`
	Kind   string `json:"kind"`
	Output string `json:"output,omitempty"`
}

// ErrorResponse is the body of an /eval that failed to evaluate.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Output string `json:"output,omitempty"`
}

// EvalError is an evaluation error reported by the server. It unwraps to
// the matching sentinel of lib/value, so errors.Is works across the wire.
type EvalError struct {
	Message string
	Kind    string
	Output  string
}

func (e *EvalError) Error() string {
	return e.Message
}

func (e *EvalError) Unwrap() error {
	return value.FromKind(e.Kind)
}

type Client struct {
	httpclient *http.Client
	url        *url.URL
}

func NewClient(hostport string, httpclient *http.Client) (*Client, error) {
	url, err := url.Parse(hostport)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hostport [%s]: %v", hostport, err)
	}
	return &Client{
		url:        url,
		httpclient: httpclient,
	}, nil
}

func (c Client) evalURL() string {
	c.url.Path = "/eval"
	return c.url.String()
}

func (c Client) operatorsURL() string {
	c.url.Path = "/operators"
	return c.url.String()
}

func (c Client) envURL() string {
	c.url.Path = "/env"
	return c.url.String()
}

func (c Client) do(response *http.Response, err error) ([]byte, int, error) {
	if err != nil {
		return nil, 0, fmt.Errorf("server error: %v", err)
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read server response: %v", err)
	}
	return body, response.StatusCode, nil
}

func (c Client) get(url string) ([]byte, error) {
	body, status, err := c.do(c.httpclient.Get(url))
	if err != nil {
		return nil, err
	}
	// handle http error given by the server
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s: %s", http.StatusText(status), string(body))
	}
	return body, nil
}

// Eval sends src to the server and returns the raw response. Failed
// evaluations come back as *EvalError.
func (c *Client) Eval(src string) (EvalResponse, error) {
	var ret EvalResponse
	body, status, err := c.do(c.httpclient.Post(c.evalURL(), "text/plain", bytes.NewBufferString(src)))
	if err != nil {
		return ret, err
	}
	if status == http.StatusBadRequest {
		var e ErrorResponse
		if jerr := json.Unmarshal(body, &e); jerr == nil && e.Kind != "" {
			return ret, &EvalError{Message: e.Error, Kind: e.Kind, Output: e.Output}
		}
	}
	if status < 200 || status >= 300 {
		return ret, fmt.Errorf("%s: %s", http.StatusText(status), string(body))
	}
	if err := json.Unmarshal(body, &ret); err != nil {
		return ret, fmt.Errorf("error parsing eval response: %v", err)
	}
	return ret, nil
}

// EvalValue is Eval with the result read back into a value. The value is
// nil when the last form was a define. Procedures can not be read back and
// fail with a syntax error.
func (c *Client) EvalValue(src string) (value.Value, error) {
	resp, err := c.Eval(src)
	if err != nil {
		return nil, err
	}
	if resp.Kind == "" {
		return nil, nil
	}
	if resp.Kind == "procedure" {
		return nil, value.SyntaxErrorf("can not read back %s", resp.Result)
	}
	return reader.Read(resp.Result)
}

// Operators returns the help of every builtin keyed by name.
func (c *Client) Operators() (map[string]json.RawMessage, error) {
	body, err := c.get(c.operatorsURL())
	if err != nil {
		return nil, err
	}
	var ret map[string]json.RawMessage
	if err := json.Unmarshal(body, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Env returns every root binding rendered as source.
func (c *Client) Env() (map[string]string, error) {
	body, err := c.get(c.envURL())
	if err != nil {
		return nil, err
	}
	var ret map[string]string
	if err := json.Unmarshal(body, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
