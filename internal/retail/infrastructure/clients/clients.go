// Package clients holds the typed HTTP gateways to the remote retail
// services. Every lookup maps a clean 404 to (nil, nil); any transport
// failure or unexpected status is an error.
package clients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

func newHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// decodeEntity interprets a lookup response: 200 decodes into out, 404 is a
// clean absence, anything else is a remote failure.
func decodeEntity(resp *resty.Response, service string, out any) (bool, error) {
	switch resp.StatusCode() {
	case http.StatusOK:
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return false, fmt.Errorf("%s service: decoding response: %w", service, err)
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%s service returned status %d", service, resp.StatusCode())
	}
}

// decodeList interprets a listing response, which has no absence case.
func decodeList(resp *resty.Response, service string, out any) error {
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s service returned status %d", service, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s service: decoding response: %w", service, err)
	}
	return nil
}
