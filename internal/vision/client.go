package vision

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/observability/metrics"
)

const component = "vision"

// featureLabelDetection is the Vision feature type for image labels.
const featureLabelDetection = "LABEL_DETECTION"

// Config holds configuration for the Vision client.
type Config struct {
	CredentialsFile   string        // service account JSON, empty for application default credentials
	Endpoint          string        // API endpoint override
	MaxResults        int           // labels requested per image
	Timeout           time.Duration // per request
	RequestsPerSecond float64       // request pacing
	CacheTTL          time.Duration // 0 disables the result cache
	HTTPClient        *http.Client  // replaces the authenticated transport when set
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		MaxResults:        50,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
		CacheTTL:          24 * time.Hour,
	}
}

// Client is a Source backed by the Vision REST API. Results are cached by
// image content, so identical images cost one request.
type Client struct {
	config  Config
	service *vision.Service
	cache   *cache.Cache
	limiter *rate.Limiter
	metrics *metrics.VisionMetrics
}

// NewClient creates a Vision client. m may be nil.
func NewClient(ctx context.Context, config Config, m *metrics.VisionMetrics) (*Client, error) {
	defaults := DefaultConfig()
	if config.MaxResults <= 0 {
		config.MaxResults = defaults.MaxResults
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}

	var opts []option.ClientOption
	switch {
	case config.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	case config.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.New(err).
			Component(component).
			Category(errors.CategoryConfiguration).
			Context("operation", "create-service").
			Context("credentials_file", config.CredentialsFile).
			Build()
	}

	c := &Client{
		config:  config,
		service: service,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		metrics: m,
	}
	if config.CacheTTL > 0 {
		c.cache = cache.New(config.CacheTTL, config.CacheTTL*2)
	}

	GetLogger().Info("Vision client initialized",
		logger.Int("max_results", config.MaxResults),
		logger.Duration("timeout", config.Timeout),
		logger.Float64("requests_per_second", config.RequestsPerSecond),
		logger.Duration("cache_ttl", config.CacheTTL),
		logger.Bool("credentials_file", config.CredentialsFile != ""))

	return c, nil
}

// Annotate returns the labels of image in the order the service ranks them.
func (c *Client) Annotate(ctx context.Context, image []byte) ([]annotation.Label, error) {
	sum := sha256.Sum256(image)
	key := hex.EncodeToString(sum[:])

	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			if labels, ok := cached.([]annotation.Label); ok {
				c.metrics.IncrementCacheHits()
				GetLogger().Debug("Vision cache hit", logger.String("sha256", key))
				return slices.Clone(labels), nil
			}
		}
		c.metrics.IncrementCacheMisses()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(err).
			Component(component).
			Category(errors.CategoryCancellation).
			Context("operation", "rate_limiter_wait").
			Build()
	}

	start := time.Now()
	labels, err := c.request(ctx, image)
	c.metrics.RecordRequest(time.Since(start).Seconds(), len(labels), err)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, slices.Clone(labels), cache.DefaultExpiration)
	}
	return labels, nil
}

func (c *Client) request(ctx context.Context, image []byte) ([]annotation.Label, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{
				Type:       featureLabelDetection,
				MaxResults: int64(c.config.MaxResults),
			}},
		}},
	}

	resp, err := c.service.Images.Annotate(req).Context(reqCtx).Do()
	if err != nil {
		return nil, requestError(ctx, err)
	}
	if len(resp.Responses) == 0 {
		return nil, errors.Newf("vision: empty response").
			Component(component).
			Category(errors.CategoryImageProvider).
			Build()
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		return nil, errors.Newf("vision: image rejected: %s", r.Error.Message).
			Component(component).
			Category(errors.CategoryImageProvider).
			Context("status_code", r.Error.Code).
			Build()
	}

	labels := make([]annotation.Label, 0, len(r.LabelAnnotations))
	for _, a := range r.LabelAnnotations {
		if a == nil {
			continue
		}
		labels = append(labels, annotation.Label{Text: a.Description, Score: a.Score})
	}
	return labels, nil
}

// requestError classifies a failed API call. ctx is the caller's context,
// so a per-request timeout counts as a network failure.
func requestError(ctx context.Context, err error) error {
	var apiErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		return errors.Newf("vision: request failed with HTTP %d: %s", apiErr.Code, apiErr.Message).
			Component(component).
			Category(errors.CategoryImageProvider).
			Context("http_status", apiErr.Code).
			Build()
	case ctx.Err() != nil:
		return errors.New(err).
			Component(component).
			Category(errors.CategoryCancellation).
			Context("operation", "annotate").
			Build()
	default:
		return errors.New(err).
			Component(component).
			Category(errors.CategoryNetwork).
			Context("operation", "annotate").
			Build()
	}
}
