package fetcher

import (
	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

// Get issues req against url and converts transport failures and non-2xx
// statuses into FetchErrors.
func Get(req *resty.Request, url string) (*resty.Response, error) {
	resp, err := req.Get(url)
	if err != nil {
		return nil, ClassifyTransportError(err)
	}
	if !resp.IsSuccess() {
		return nil, ClassifyHTTPError(resp.StatusCode())
	}
	return resp, nil
}

// GetJSON is Get followed by a JSON validity check of the body.
func GetJSON(req *resty.Request, url string) (gjson.Result, error) {
	resp, err := Get(req, url)
	if err != nil {
		return gjson.Result{}, err
	}
	body := resp.String()
	if !gjson.Valid(body) {
		return gjson.Result{}, NewValidationError("response body is not valid JSON")
	}
	return gjson.Parse(body), nil
}
