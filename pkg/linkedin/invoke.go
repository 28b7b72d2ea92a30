package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const restliProtocolVersion = "2.0.0"

// invoke performs a single REST call against the LinkedIn API and decodes
// the JSON response into out.
//
// Status handling: 200/201 report found=true with out populated, 404
// reports found=false without error, and every other status is surfaced
// as an *APIError carrying the status and response body. Network-level
// failures, including timeouts, also map to *APIError.
func (c *Client) invoke(ctx context.Context, method, rawurl string, headers map[string]string, body io.Reader, accessToken string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return false, err
	}

	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &APIError{Status: "provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return false, nil
	default:
		data, _ := io.ReadAll(resp.Body)
		return false, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	}
	return true, nil
}
