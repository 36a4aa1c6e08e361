package versions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	versionsIndexPathTemplateConstant    = "%s/%s/%s/versions.json"
	noSourcesConfiguredMessageConstant   = "no package sources configured"
	allSourcesFailedTemplateConstant     = "all package sources failed for %s"
	requestCreationErrorTemplateConstant = "unable to build version request: %w"
	unexpectedStatusTemplateConstant     = "unexpected status %d from %s"
	responseDecodeErrorTemplateConstant  = "unable to decode version list from %s: %w"
	sourceQueryFailedMessageConstant     = "package source query failed"
	logFieldCoordinateConstant           = "coordinate"
	logFieldSourceURLConstant            = "source_url"
	defaultRequestTimeoutConstant        = 10 * time.Second
)

// PackageSource lists the known versions for a coordinate. Implementations
// are treated as unreliable and slow by design; callers bound every query
// with a timeout.
type PackageSource interface {
	ListVersions(queryContext context.Context, coordinate workspace.Coordinate) ([]string, error)
}

// HTTPPackageSource queries one or more registry base URLs for a JSON array
// of version identifiers. The first source that answers wins; per-source
// failures are logged and the next source is tried.
type HTTPPackageSource struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURLs   []string
}

// NewHTTPPackageSource constructs a source over the provided registry base
// URLs with an optional HTTP client override.
func NewHTTPPackageSource(logger *zap.Logger, httpClient *http.Client, baseURLs []string) *HTTPPackageSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}
	duplicatedBaseURLs := make([]string, 0, len(baseURLs))
	for _, baseURL := range baseURLs {
		trimmedBaseURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if len(trimmedBaseURL) > 0 {
			duplicatedBaseURLs = append(duplicatedBaseURLs, trimmedBaseURL)
		}
	}
	return &HTTPPackageSource{logger: logger, httpClient: httpClient, baseURLs: duplicatedBaseURLs}
}

// ListVersions fetches the version index for the coordinate from the first
// responsive registry.
func (source *HTTPPackageSource) ListVersions(queryContext context.Context, coordinate workspace.Coordinate) ([]string, error) {
	if len(source.baseURLs) == 0 {
		return nil, errors.New(noSourcesConfiguredMessageConstant)
	}

	for _, baseURL := range source.baseURLs {
		indexURL := fmt.Sprintf(
			versionsIndexPathTemplateConstant,
			baseURL,
			url.PathEscape(coordinate.Group),
			url.PathEscape(coordinate.Artifact),
		)

		availableVersions, queryError := source.fetchIndex(queryContext, indexURL)
		if queryError == nil {
			return availableVersions, nil
		}

		source.logger.Debug(
			sourceQueryFailedMessageConstant,
			zap.String(logFieldCoordinateConstant, coordinate.String()),
			zap.String(logFieldSourceURLConstant, indexURL),
			zap.Error(queryError),
		)

		if contextError := queryContext.Err(); contextError != nil {
			return nil, contextError
		}
	}

	return nil, fmt.Errorf(allSourcesFailedTemplateConstant, coordinate.String())
}

func (source *HTTPPackageSource) fetchIndex(queryContext context.Context, indexURL string) ([]string, error) {
	request, requestError := http.NewRequestWithContext(queryContext, http.MethodGet, indexURL, nil)
	if requestError != nil {
		return nil, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}

	response, responseError := source.httpClient.Do(request)
	if responseError != nil {
		return nil, responseError
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(unexpectedStatusTemplateConstant, response.StatusCode, indexURL)
	}

	var availableVersions []string
	if decodeError := json.NewDecoder(response.Body).Decode(&availableVersions); decodeError != nil {
		return nil, fmt.Errorf(responseDecodeErrorTemplateConstant, indexURL, decodeError)
	}
	return availableVersions, nil
}
