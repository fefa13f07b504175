package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

// Request. one directions query against the external provider.
type Request struct {
	Origin       string
	Destination  string
	Mode         pkg.TravelMode
	Alternatives bool
	Language     string
}

// Client. HTTP client for the external directions provider. The provider
// computes the routes, we only consume its response.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchRoutes performs the directions request and returns the normalized
// routes plus the raw body (the raw body is cached alongside the normalized
// routes). A transport or non-200 failure maps to ErrProviderUnavailable;
// an error envelope in the payload maps to ErrNoRouteFound or
// ErrProviderUnavailable depending on its code.
func (c *Client) FetchRoutes(ctx context.Context, req Request) ([]datastructure.Route, []byte, error) {
	q := url.Values{}
	q.Set("origin", req.Origin)
	q.Set("destination", req.Destination)
	q.Set("mode", req.Mode.String())
	q.Set("alternatives", fmt.Sprintf("%t", req.Alternatives))
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/directions?%s", c.baseURL, q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrProviderUnavailable,
			"building directions request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrProviderUnavailable,
			"directions provider request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrProviderUnavailable,
			"reading directions response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, util.WrapErrorf(nil, util.ErrProviderUnavailable,
			"directions provider returned %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrProviderUnavailable,
			"decoding directions response")
	}

	if payload.Error != "" {
		code := util.ErrProviderUnavailable
		if payload.Error == statusZeroResults {
			code = util.ErrNoRouteFound
		}
		return nil, nil, util.WrapErrorf(nil, code,
			"directions provider error: %s: %s", payload.Error, payload.Message)
	}

	// a non-error empty route list is NoRouteFound, not a transport failure
	if len(payload.Routes) == 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrNoRouteFound,
			"directions provider returned zero routes")
	}

	return Normalize(&payload), body, nil
}
