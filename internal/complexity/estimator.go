package complexity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Score is the coarse complexity tier derived from line count.
type Score string

const (
	ScoreLow    Score = "low"
	ScoreMedium Score = "medium"
	ScoreHigh   Score = "high"
)

// Estimate is the result of measuring one deployment package.
type Estimate struct {
	LinesOfCode int
	Score       Score
}

// Thresholds control the line-count tier boundaries: a count at or
// above MediumMin scores medium, a count above HighMax scores high.
type Thresholds struct {
	MediumMin int
	HighMax   int
}

// DefaultThresholds per the shipped policy: low < 100, 100-500 medium,
// > 500 high.
var DefaultThresholds = Thresholds{MediumMin: 100, HighMax: 500}

// Classify maps a line count onto a tier.
func (t Thresholds) Classify(loc int) Score {
	switch {
	case loc > t.HighMax:
		return ScoreHigh
	case loc >= t.MediumMin:
		return ScoreMedium
	default:
		return ScoreLow
	}
}

// DefaultDownloadTimeout bounds a single artifact fetch so one
// unreachable package cannot stall a scan.
const DefaultDownloadTimeout = 30 * time.Second

// maxArchiveBytes caps how much of a deployment package is read.
// Lambda zip packages are limited to 250 MB unzipped; 256 MB of
// compressed payload is past anything legitimate.
const maxArchiveBytes = 256 << 20

// Estimator downloads deployment packages and estimates source size.
type Estimator struct {
	client     *http.Client
	thresholds Thresholds
}

// NewEstimator creates an estimator with the given download timeout
// and tier thresholds. Zero values select the defaults.
func NewEstimator(timeout time.Duration, th Thresholds) *Estimator {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	if th.MediumMin <= 0 || th.HighMax <= 0 {
		th = DefaultThresholds
	}
	return &Estimator{
		client:     &http.Client{Timeout: timeout},
		thresholds: th,
	}
}

// Estimate fetches the deployment package at url and counts source
// lines for the given language. Fetch failures are recoverable: the
// returned Estimate is always usable ({0, low} in the degraded case)
// and the error only signals that a warning should be recorded. An
// empty url (container image packaged function) is not an error.
func (e *Estimator) Estimate(ctx context.Context, url, language string) (Estimate, error) {
	if url == "" {
		return Estimate{LinesOfCode: 0, Score: ScoreLow}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Estimate{Score: ScoreLow}, fmt.Errorf("build artifact request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return Estimate{Score: ScoreLow}, fmt.Errorf("download artifact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Estimate{Score: ScoreLow}, fmt.Errorf("download artifact: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes))
	if err != nil {
		return Estimate{Score: ScoreLow}, fmt.Errorf("read artifact body: %w", err)
	}

	loc := CountArchiveLines(data, language)
	return Estimate{LinesOfCode: loc, Score: e.thresholds.Classify(loc)}, nil
}
