package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/httpclient"
	"github.com/n0sat/satbot/internal/logger"
)

const (
	amsatAPIPath       = "status/api/v1/sat_info.php"
	satNameSelectQuery = `select[name="SatName"] > option`
	selectPlaceholder  = "Select Satellite"
)

// ScrapeSatelliteNames fetches amsatURL (the status dropdown page) and
// returns every non-empty, non-placeholder <option value="..."> under the
// SatName select, per §4.4 step 1. A request/parse failure returns an
// error; the caller falls back to SatelliteNames' hard-coded list rather
// than failing the update cycle (§4.4/§9).
func ScrapeSatelliteNames(ctx context.Context, client *httpclient.SaferClient, amsatURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, amsatURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build amsat status request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "amsat status request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Newf("amsat status page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amsat status page")
	}

	var names []string
	doc.Find(satNameSelectQuery).Each(func(i int, opt *goquery.Selection) {
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		if value == "" || value == selectPlaceholder {
			return
		}
		names = append(names, value)
	})

	return names, nil
}

// amsatReportJSON mirrors one element of the sat_info.php response body.
type amsatReportJSON struct {
	Name         string `json:"name"`
	ReportedTime string `json:"reported_time"`
	Callsign     string `json:"callsign"`
	Report       string `json:"report"`
	GridSquare   string `json:"grid_square"`
}

// amsatReportTimeLayout matches the AMSAT API's "YYYY-MM-DD HH:MM:SS" UTC
// timestamp format.
const amsatReportTimeLayout = "2006-01-02 15:04:05"

// amsatFetchMaxAttempts and amsatFetchBackoffUnit implement §4.2's per-fetch
// retry: up to 3 attempts, sleeping attempt×amsatFetchBackoffUnit (2 s, so
// 2×attempt seconds) before each retry, treating both transport errors and
// non-success HTTP status as
// retryable. amsatFetchBackoffUnit is a var, not a const, so tests can
// shrink it instead of waiting out real backoffs.
const amsatFetchMaxAttempts = 3

var amsatFetchBackoffUnit = 2 * time.Second

// FetchReports queries the AMSAT status API for one satellite name over a
// 1-hour window (§4.4 step 2: "Call B batch-fetch over the name list with
// 1-hour window" — matching the hourly-bucketed DataBlock model, not the
// scraper's own longer-window default), retrying per §4.2 on failure, and
// decodes the reports. A malformed timestamp degrades that single report
// rather than the whole response.
func FetchReports(ctx context.Context, client *httpclient.SaferClient, baseURL, apiName string, window time.Duration) ([]AmsatReport, error) {
	reqURL, err := amsatRequestURL(baseURL, apiName, window)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= amsatFetchMaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt) * amsatFetchBackoffUnit
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		reports, err := fetchReportsOnce(ctx, client, reqURL, apiName)
		if err == nil {
			return reports, nil
		}
		lastErr = err
		logger.With(logger.SymSatellite).Warnw("amsat sat_info fetch attempt failed",
			"api_name", apiName, "attempt", attempt, "max_attempts", amsatFetchMaxAttempts, "error", err)
	}

	return nil, lastErr
}

// fetchReportsOnce performs a single, non-retried request/decode cycle.
func fetchReportsOnce(ctx context.Context, client *httpclient.SaferClient, reqURL, apiName string) ([]AmsatReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build amsat sat_info request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "amsat sat_info request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Newf("amsat sat_info returned status %d for %s", resp.StatusCode, apiName)
	}

	var raw []amsatReportJSON
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode amsat sat_info response for %s", apiName)
	}

	reports := make([]AmsatReport, 0, len(raw))
	for _, r := range raw {
		t, err := time.Parse(amsatReportTimeLayout, r.ReportedTime)
		if err != nil {
			logger.With(logger.SymSatellite).Warnw("dropping amsat report with unparseable timestamp",
				"api_name", apiName, "raw_time", r.ReportedTime)
			continue
		}
		reports = append(reports, AmsatReport{
			SatelliteName: r.Name,
			ReportedTime:  t,
			Callsign:      r.Callsign,
			Report:        ParseReportStatus(r.Report),
			GridSquare:    r.GridSquare,
		})
	}
	return reports, nil
}

func amsatRequestURL(baseURL, apiName string, window time.Duration) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid amsat api base url %s", baseURL)
	}
	if !strings.HasSuffix(u.Path, "sat_info.php") {
		u = u.JoinPath(amsatAPIPath)
	}

	hours := int(window.Round(time.Hour) / time.Hour)
	if hours < 1 {
		hours = 1
	}

	q := u.Query()
	q.Set("name", apiName)
	q.Set("hours", strconv.Itoa(hours))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// BatchFetch fetches every name in sequence, pacing requests by delay
// (§4.2/§4.4: "imposes a 200 ms inter-request delay"). A single name's
// failure degrades that name's FetchOutcome to Success: false rather than
// aborting the remaining batch — the AMSAT update cycle must make partial
// progress on a partial outage.
func BatchFetch(ctx context.Context, client *httpclient.SaferClient, baseURL string, names []string, window, delay time.Duration) []FetchOutcome {
	outcomes := make([]FetchOutcome, 0, len(names))
	log := logger.With(logger.SymSatellite)

	for i, name := range names {
		if ctx.Err() != nil {
			outcomes = append(outcomes, FetchOutcome{APIName: name, Success: false})
			continue
		}

		reports, err := FetchReports(ctx, client, baseURL, name, window)
		if err != nil {
			log.Warnw("amsat fetch failed for satellite, continuing batch", "api_name", name, "error", err)
			outcomes = append(outcomes, FetchOutcome{APIName: name, Success: false})
		} else {
			outcomes = append(outcomes, FetchOutcome{APIName: name, Reports: reports, Success: true})
		}

		if i < len(names)-1 && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	return outcomes
}

// DescribeBatch summarizes a batch-fetch result for logging — how many of
// the names succeeded and how many total reports were collected.
func DescribeBatch(outcomes []FetchOutcome) string {
	succeeded, total := 0, 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
		total += len(o.Reports)
	}
	return fmt.Sprintf("%d/%d satellites succeeded, %d reports", succeeded, len(outcomes), total)
}
