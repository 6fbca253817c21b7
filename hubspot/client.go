package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.hubapi.com"

// Doer is the HTTP boundary. *http.Client satisfies it.
type Doer interface {
	Do(rq *http.Request) (*http.Response, error)
}

// Client issues the handful of CRM object calls the workflows need. Non-2xx responses are
// returned as *APIError, never as transport failures.
type Client struct {
	baseURL string
	http    Doer
}

// Object is a CRM record as returned by a batch read.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// APIError is a non-2xx response from the CRM.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// NewClient returns a client that authenticates every request with the bearer token.
func NewClient(ctx context.Context, baseURL string, token string, timeout time.Duration) *Client {
	tokens := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	client := oauth2.NewClient(ctx, tokens)
	if timeout > 0 {
		client.Timeout = timeout
	}

	return NewClientWithDoer(baseURL, client)
}

// NewClientWithDoer returns a client that sends requests through 'doer' as is, i.e. any
// authentication is the Doer's business.
func NewClientWithDoer(baseURL string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    doer,
	}
}

// Update sets the properties of a single object. Anything other than 200 OK is an error.
func (c *Client) Update(ctx context.Context, objectType, id string, properties map[string]string) error {
	path := fmt.Sprintf("/crm/v3/objects/%s/%s", url.PathEscape(objectType), url.PathEscape(id))
	body := struct {
		Properties map[string]string `json:"properties"`
	}{
		Properties: properties,
	}

	status, reply, err := c.call(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	} else if status != http.StatusOK {
		return apiError(status, reply)
	}

	return nil
}

// Associations returns the ids of the 'to' objects associated with an object, in the order
// returned by the CRM.
func (c *Client) Associations(ctx context.Context, fromType, id, toType string) ([]string, error) {
	path := fmt.Sprintf("/crm/v4/objects/%s/%s/associations/%s", url.PathEscape(fromType), url.PathEscape(id), url.PathEscape(toType))

	status, reply, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	} else if status != http.StatusOK {
		return nil, apiError(status, reply)
	}

	response := struct {
		Results []struct {
			ToObjectID json.Number `json:"toObjectId"`
		} `json:"results"`
	}{}

	if err := json.Unmarshal(reply, &response); err != nil {
		return nil, fmt.Errorf("invalid associations response (%w)", err)
	}

	ids := []string{}
	for _, r := range response.Results {
		if id := r.ToObjectID.String(); id != "" {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// BatchRead retrieves the requested properties for a set of objects in a single call, keyed
// by object id.
func (c *Client) BatchRead(ctx context.Context, objectType string, ids []string, properties ...string) (map[string]Object, error) {
	objects := map[string]Object{}
	if len(ids) == 0 {
		return objects, nil
	}

	type input struct {
		ID string `json:"id"`
	}

	body := struct {
		Inputs     []input  `json:"inputs"`
		Properties []string `json:"properties"`
	}{
		Inputs:     []input{},
		Properties: properties,
	}

	for _, id := range ids {
		body.Inputs = append(body.Inputs, input{ID: id})
	}

	path := fmt.Sprintf("/crm/v3/objects/%s/batch/read", url.PathEscape(objectType))

	status, reply, err := c.call(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	} else if status != http.StatusOK {
		return nil, apiError(status, reply)
	}

	response := struct {
		Results []Object `json:"results"`
	}{}

	if err := json.Unmarshal(reply, &response); err != nil {
		return nil, fmt.Errorf("invalid batch read response (%w)", err)
	}

	for _, object := range response.Results {
		objects[object.ID] = object
	}

	return objects, nil
}

func (c *Client) call(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var content io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("error encoding request (%w)", err)
		}
		content = bytes.NewReader(b)
	}

	rq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, content)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request (%w)", err)
	}

	rq.Header.Set("Accept", "application/json")
	if body != nil {
		rq.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(rq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s failed (%w)", method, path, err)
	}

	defer response.Body.Close()

	reply, err := io.ReadAll(response.Body)
	if err != nil {
		return response.StatusCode, nil, fmt.Errorf("error reading response (%w)", err)
	}

	return response.StatusCode, reply, nil
}

func apiError(status int, reply []byte) *APIError {
	message := struct {
		Message string `json:"message"`
	}{}

	if err := json.Unmarshal(reply, &message); err != nil {
		return &APIError{StatusCode: status, Message: "server response error"}
	} else if message.Message == "" {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(reply))}
	}

	return &APIError{StatusCode: status, Message: message.Message}
}
