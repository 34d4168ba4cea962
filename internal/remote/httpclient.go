package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	pathSearch   = "/api/search"
	pathServices = "/api/services"
	pathPending  = "/api/services/pending"

	requestIDHeader = "X-Request-ID"
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	// lists collapses concurrent fetches of the same collection.
	lists singleflight.Group
	// newRequestID is a seam for tests.
	newRequestID func() string
}

// NewHTTPClient returns a client for the API rooted at baseURL. timeout
// bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		log:          log.With("component", "remote"),
		newRequestID: uuid.NewString,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	reqID := c.newRequestID()
	header := http.Header{requestIDHeader: {reqID}}

	err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, header, in, out)
	if err != nil {
		c.log.Debug(ctx, "remote call failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return mapError(err)
	}
	return nil
}

// mapError converts transport and HTTP failures into package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	switch {
	case errors.As(err, &se):
		switch se.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, netx.ErrDecode):
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (c *HTTPClient) list(ctx context.Context, path string) ([]models.Service, error) {
	v, err, _ := c.lists.Do(path, func() (any, error) {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
			return nil, err
		}
		return c.decodeServices(ctx, raw)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]models.Service)), nil
}

// decodeServices accepts only a JSON array. Elements that do not decode or
// validate are dropped.
func (c *HTTPClient) decodeServices(ctx context.Context, raw json.RawMessage) ([]models.Service, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	out := make([]models.Service, 0, len(items))
	for i, item := range items {
		var s models.Service
		if err := json.Unmarshal(item, &s); err != nil {
			c.log.Warn(ctx, "dropping undecodable remote record", "index", i, "err", err)
			continue
		}
		if err := s.Validate(); err != nil {
			c.log.Warn(ctx, "dropping invalid remote record", "index", i, "err", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *HTTPClient) ListServices(ctx context.Context) ([]models.Service, error) {
	return c.list(ctx, pathSearch)
}

func (c *HTTPClient) PendingServices(ctx context.Context) ([]models.Service, error) {
	return c.list(ctx, pathPending)
}

func (c *HTTPClient) SubmitService(ctx context.Context, s models.Service) (models.Service, error) {
	var created models.Service
	if err := c.do(ctx, http.MethodPost, pathServices, s, &created); err != nil {
		return models.Service{}, err
	}
	if err := created.Validate(); err != nil {
		return models.Service{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return created, nil
}

func (c *HTTPClient) ApproveService(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, servicePath(id)+"/approve", nil, nil)
}

func (c *HTTPClient) DeleteService(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, servicePath(id), nil, nil)
}

// Ping checks that the API answers the listing endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathSearch, nil, nil)
}

func servicePath(id int64) string {
	return pathServices + "/" + strconv.FormatInt(id, 10)
}
