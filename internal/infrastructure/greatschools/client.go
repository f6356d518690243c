package greatschools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
)

const schoolsPath = "/gsr/api/schools"

// client queries the school search API around a coordinate, follows
// links.next pagination, and persists every page plus the aggregated result
// to the content-hash cache.
type client struct {
	httpClient *http.Client
	cfg        *config.SchoolsConfig
	cache      repository.PageCacheRepository
	logger     *zap.Logger
}

func NewClient(
	cfg *config.SchoolsConfig,
	cache repository.PageCacheRepository,
	logger *zap.Logger,
) repository.SchoolRepository {
	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		cache:      cache,
		logger:     logger,
	}
}

func (c *client) FindNearby(ctx context.Context, lat, lon float64) ([]domain.School, error) {
	params := url.Values{
		"state":        {c.cfg.State},
		"sort":         {"rating"},
		"limit":        {"2000"},
		"url":          {schoolsPath},
		"countsOnly":   {"false"},
		"level_code":   {"e,e"},
		"lat":          {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":          {strconv.FormatFloat(lon, 'f', -1, 64)},
		"distance":     {strconv.Itoa(c.cfg.DistanceMiles)},
		"extras":       {"students_per_teacher,review_summary,saved_schools"},
		"locationType": {"state"},
	}
	firstURL := c.cfg.BaseURL + schoolsPath + "?" + params.Encode()

	// Aggregated result cache keyed by the query itself.
	aggKey := c.cache.HashKey(params.Encode())
	if cached, err := c.cache.ReadHashed("schools", aggKey); err != nil {
		return nil, err
	} else if cached != nil {
		var doc struct {
			Response domain.SchoolSearchResponse `json:"response"`
		}
		if err := json.Unmarshal(cached, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse cached school response: %w", err)
		}
		c.logger.Debug("schools served from cache", zap.Int("items", len(doc.Response.Items)))
		return doc.Response.Items, nil
	}

	var allItems []domain.School
	pageNo := 0
	nextURL := firstURL
	for nextURL != "" {
		pageNo++
		pageResp, raw, err := c.fetchPage(ctx, nextURL, lat, lon)
		if err != nil {
			// The first page failing means no overlay; later pages keep what
			// was already collected.
			if pageNo == 1 {
				return nil, err
			}
			c.logger.Warn("school page fetch failed, keeping partial results",
				zap.Int("page", pageNo),
				zap.Error(err))
			break
		}

		allItems = append(allItems, pageResp.Items...)
		pageKey := c.cache.HashKey(nextURL)
		if err := c.cache.WriteHashed("schools_page", pageKey, domain.CachedDocument{
			Request:  map[string]interface{}{"url": nextURL},
			Response: raw,
		}); err != nil {
			return nil, err
		}

		nextURL = pageResp.Links.Next
	}

	aggregated := domain.SchoolSearchResponse{Items: allItems}
	aggRaw, err := json.Marshal(aggregated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal aggregated school response: %w", err)
	}
	if err := c.cache.WriteHashed("schools", aggKey, domain.CachedDocument{
		Request:  map[string]interface{}{"url": firstURL},
		Response: aggRaw,
	}); err != nil {
		return nil, err
	}

	c.logger.Info("school search completed",
		zap.Int("items", len(allItems)),
		zap.Int("pages", pageNo))
	return allItems, nil
}

func (c *client) fetchPage(ctx context.Context, pageURL string, lat, lon float64) (*domain.SchoolSearchResponse, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("user-agent", c.cfg.UserAgent)
	if c.cfg.CSRFToken != "" {
		req.Header.Set("x-csrf-token", c.cfg.CSRFToken)
	}
	c.addCookies(req, lat, lon)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("school source returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("elapsed", elapsed))
		return nil, nil, fmt.Errorf("school request failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result domain.SchoolSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("school page fetched",
		zap.Int("items", len(result.Items)),
		zap.Duration("elapsed", elapsed))
	return &result, body, nil
}

func (c *client) addCookies(req *http.Request, lat, lon float64) {
	if c.cfg.CSRFCookie != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: c.cfg.CSRFCookie})
	}

	prefs := map[string]interface{}{
		"location": map[string]interface{}{
			"ip":           randomPublicIPv4(),
			"city":         c.cfg.City,
			"lat":          lat,
			"lon":          lon,
			"state":        c.cfg.State,
			"locationType": "state",
		},
	}
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	req.AddCookie(&http.Cookie{
		Name:  "search_prefs",
		Value: url.QueryEscape(string(encoded)),
	})
}

// randomPublicIPv4 produces a plausible public address for the search_prefs
// cookie, avoiding reserved ranges.
func randomPublicIPv4() string {
	for {
		a, b := rand.Intn(255)+1, rand.Intn(255)+1
		c1, d := rand.Intn(255)+1, rand.Intn(255)+1
		switch {
		case a == 10 || a == 127 || a == 255,
			a == 100 && b >= 64 && b <= 127,
			a == 169 && b == 254,
			a == 172 && b >= 16 && b <= 31,
			a == 192 && b == 168,
			a == 198 && (b == 18 || b == 19),
			a >= 224:
			continue
		}
		return fmt.Sprintf("%d.%d.%d.%d", a, b, c1, d)
	}
}
