package system

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/huanfeng/mclauncher/internal/version"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

// Error categories reported by Reachability.ErrorType
const (
	ErrorTimeout            = "timeout"
	ErrorConnectionRefused  = "connection_refused"
	ErrorDNS                = "dns_failure"
	ErrorNetworkUnreachable = "network_unreachable"
	ErrorTLS                = "tls_certificate_error"
	ErrorProxy              = "proxy_error"
	ErrorStatus             = "http_status"
	ErrorUnknown            = "unknown"
)

// Reachability is the outcome of probing a URL
type Reachability struct {
	URL        string        `json:"url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	ErrorType  string        `json:"error_type,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NetworkChecker probes remote endpoints
type NetworkChecker struct {
	client *http.Client
	logger utils.Logger
}

// NewNetworkChecker creates a checker whose probes give up after timeout
func NewNetworkChecker(timeout time.Duration, logger utils.Logger) *NetworkChecker {
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &NetworkChecker{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Check issues a GET for url and reports whether it answered 200.
// The body is not read.
func (nc *NetworkChecker) Check(ctx context.Context, url string) Reachability {
	result := Reachability{URL: url}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.ErrorType = ErrorUnknown
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", "mclauncher/"+version.Version)

	resp, err := nc.client.Do(req)
	if err != nil {
		result.ErrorType = categorizeNetworkError(err)
		result.Error = err.Error()
		nc.logger.Debug("probe %s failed (%s): %v", url, result.ErrorType, err)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)
	result.StatusCode = resp.StatusCode
	if resp.StatusCode == http.StatusOK {
		result.Reachable = true
	} else {
		result.ErrorType = ErrorStatus
		result.Error = resp.Status
	}
	nc.logger.Debug("probe %s: %d in %s", url, resp.StatusCode, result.Latency)
	return result
}

func categorizeNetworkError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorDNS
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrorTimeout
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "connection refused"):
		return ErrorConnectionRefused
	case strings.Contains(errStr, "network is unreachable"):
		return ErrorNetworkUnreachable
	case strings.Contains(errStr, "certificate"):
		return ErrorTLS
	case strings.Contains(errStr, "proxy"):
		return ErrorProxy
	default:
		return ErrorUnknown
	}
}
