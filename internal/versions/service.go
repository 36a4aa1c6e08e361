package versions

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	defaultQueryWorkerCountConstant = 8
	defaultQueryTimeoutConstant     = 10 * time.Second
	defaultCacheSizeConstant        = 256

	queryOutcomeUnknownMessageConstant = "remote version query failed"
	poolAcquireFailedMessageConstant   = "query pool acquisition aborted"
	logFieldQueryCoordinateConstant    = "coordinate"
	logFieldCurrentVersionConstant     = "current_version"
)

// Query names one dependency whose remote versions should be inspected.
type Query struct {
	Coordinate     workspace.Coordinate
	CurrentVersion string
}

// Outcome reports the latest stable version for one query. Known is false
// when the remote source could not be consulted; such outcomes are never
// treated as hard errors by callers.
type Outcome struct {
	Coordinate     workspace.Coordinate
	CurrentVersion string
	LatestStable   string
	Known          bool
}

// Outdated reports whether the outcome names a stable version newer than the
// current one. A latest-stable equal to the current version is not outdated.
func (outcome Outcome) Outdated() bool {
	if !outcome.Known || len(outcome.LatestStable) == 0 {
		return false
	}
	return Compare(outcome.LatestStable, outcome.CurrentVersion) > 0
}

// QueryService checks dependency coordinates against remote package sources.
type QueryService interface {
	CheckLatest(queryContext context.Context, queries []Query) []Outcome
}

// RemoteQueryService runs queries concurrently under a bounded pool with an
// individual timeout per query, counted from submission so pool waits are
// bounded too, and an LRU cache keyed by coordinate so a coordinate shared
// across modules is fetched once per run.
type RemoteQueryService struct {
	logger        *zap.Logger
	packageSource PackageSource
	queryPool     *semaphore.Weighted
	queryTimeout  time.Duration
	versionCache  *lru.Cache[string, []string]
}

// ServiceConfiguration tunes the query pool, timeout, and cache bounds.
type ServiceConfiguration struct {
	WorkerCount  int
	QueryTimeout time.Duration
	CacheSize    int
}

// NewRemoteQueryService constructs a service over the provided package
// source, applying defaults to any unset configuration value.
func NewRemoteQueryService(logger *zap.Logger, packageSource PackageSource, configuration ServiceConfiguration) (*RemoteQueryService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	workerCount := configuration.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultQueryWorkerCountConstant
	}

	queryTimeout := configuration.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeoutConstant
	}

	cacheSize := configuration.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSizeConstant
	}

	versionCache, cacheError := lru.New[string, []string](cacheSize)
	if cacheError != nil {
		return nil, cacheError
	}

	return &RemoteQueryService{
		logger:        logger,
		packageSource: packageSource,
		queryPool:     semaphore.NewWeighted(int64(workerCount)),
		queryTimeout:  queryTimeout,
		versionCache:  versionCache,
	}, nil
}

// CheckLatest resolves every query concurrently. The returned slice matches
// the input order; timeout, network, and decode failures yield Known=false
// for the affected query only.
func (service *RemoteQueryService) CheckLatest(queryContext context.Context, queries []Query) []Outcome {
	outcomes := make([]Outcome, len(queries))
	var waitGroup sync.WaitGroup

	for queryIndex, pendingQuery := range queries {
		outcomes[queryIndex] = Outcome{
			Coordinate:     pendingQuery.Coordinate,
			CurrentVersion: pendingQuery.CurrentVersion,
		}

		waitGroup.Add(1)
		go func(resultIndex int, currentQuery Query) {
			defer waitGroup.Done()
			outcomes[resultIndex] = service.runSingleQuery(queryContext, currentQuery)
		}(queryIndex, pendingQuery)
	}

	waitGroup.Wait()
	return outcomes
}

func (service *RemoteQueryService) runSingleQuery(queryContext context.Context, pendingQuery Query) Outcome {
	outcome := Outcome{
		Coordinate:     pendingQuery.Coordinate,
		CurrentVersion: pendingQuery.CurrentVersion,
	}

	// The timeout covers pool acquisition as well, so a saturated pool
	// cannot hold a query past its individual budget.
	boundedContext, cancelQuery := context.WithTimeout(queryContext, service.queryTimeout)
	defer cancelQuery()

	if acquireError := service.queryPool.Acquire(boundedContext, 1); acquireError != nil {
		service.logger.Debug(
			poolAcquireFailedMessageConstant,
			zap.String(logFieldQueryCoordinateConstant, pendingQuery.Coordinate.String()),
			zap.Error(acquireError),
		)
		return outcome
	}
	defer service.queryPool.Release(1)

	availableVersions, listError := service.listVersions(boundedContext, pendingQuery.Coordinate)
	if listError != nil {
		service.logger.Warn(
			queryOutcomeUnknownMessageConstant,
			zap.String(logFieldQueryCoordinateConstant, pendingQuery.Coordinate.String()),
			zap.String(logFieldCurrentVersionConstant, pendingQuery.CurrentVersion),
			zap.Error(listError),
		)
		return outcome
	}

	outcome.Known = true
	if latestStable, found := LatestStable(availableVersions); found {
		outcome.LatestStable = latestStable
	}
	return outcome
}

func (service *RemoteQueryService) listVersions(queryContext context.Context, coordinate workspace.Coordinate) ([]string, error) {
	cacheKey := coordinate.String()
	if cachedVersions, cached := service.versionCache.Get(cacheKey); cached {
		return cachedVersions, nil
	}

	availableVersions, listError := service.packageSource.ListVersions(queryContext, coordinate)
	if listError != nil {
		return nil, listError
	}

	service.versionCache.Add(cacheKey, availableVersions)
	return availableVersions, nil
}
