package httpclient

import (
	"context"
	"time"

	"rule-one/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

// Options tunes the resty client beyond base URL and timeout.
type Options struct {
	BearerToken string
	RetryCount  int
	QueryParams map[string]string
}

func New(log *logger.Logger, baseURL string, timeout time.Duration, opts Options) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond)

	if opts.BearerToken != "" {
		client.SetAuthToken(opts.BearerToken)
	}
	if len(opts.QueryParams) > 0 {
		client.SetQueryParams(opts.QueryParams)
	}

	return &RestyClient{client: client, log: log}
}

// GET request with optional query params
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}

	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	if headers != nil {
		req.SetHeaders(headers)
	}

	start := time.Now()
	resp, err := req.Get(endpoint)
	rc.log.DebugContext(ctx, "Outbound request finished",
		logger.StringField("method", "GET"),
		logger.StringField("endpoint", endpoint),
		logger.IntField("status_code", resp.StatusCode()),
		logger.DurationField("elapsed", time.Since(start)),
	)
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, err
}

// POST request with body
func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		SetBody(body)
	if result != nil {
		req.SetResult(result)
	}

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, err
}
