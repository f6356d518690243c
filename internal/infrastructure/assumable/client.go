package assumable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
)

// client fetches listing search pages. Every successfully fetched page is
// persisted to the page cache before being returned, so the map build
// pipeline only ever reads persisted responses.
type client struct {
	httpClient *http.Client
	cfg        *config.AssumableConfig
	cache      repository.PageCacheRepository
	logger     *zap.Logger
}

func NewClient(
	cfg *config.AssumableConfig,
	cache repository.PageCacheRepository,
	logger *zap.Logger,
) repository.ListingRepository {
	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		cache:      cache,
		logger:     logger,
	}
}

func (c *client) FetchListingPage(ctx context.Context, page int) (*domain.ListingPage, error) {
	if cached, err := c.cache.ReadListingPage(page); err != nil {
		return nil, err
	} else if cached != nil {
		c.logger.Debug("listing page served from cache", zap.Int("page", page))
		var doc struct {
			Response domain.ListingPage `json:"response"`
		}
		if err := json.Unmarshal(cached, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse cached page %d: %w", page, err)
		}
		return &doc.Response, nil
	}

	form := url.Values{
		"_token":          {c.cfg.Token},
		"location":        {c.cfg.Location},
		"search_mode":     {"location"},
		"geopicker_type":  {"viewport"},
		"page":            {strconv.Itoa(page)},
		"SelectedView":    {"map_view"},
		"LocationGeoId":   {strconv.Itoa(c.cfg.GeoID)},
		"viewport":        {c.cfg.Viewport},
		"zoom":            {"1"},
		"ajax":            {"1"},
	}

	reqURL := fmt.Sprintf("%s/?_token=%s", c.cfg.BaseURL, c.cfg.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Origin", c.cfg.BaseURL)
	req.Header.Set("Referer", fmt.Sprintf("%s/?_token=%s&page=%d", c.cfg.BaseURL, c.cfg.Token, page))
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	c.addCookies(req)

	start := time.Now()
	c.logger.Info("fetching listing page", zap.Int("page", page))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("listing source returned error",
			zap.Int("page", page),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("elapsed", elapsed))
		return nil, fmt.Errorf("listing request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result domain.ListingPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Persist verbatim before handing the page to the caller.
	envelope := domain.CachedDocument{
		Request: map[string]interface{}{
			"url":  reqURL,
			"data": form,
		},
		Response: json.RawMessage(body),
	}
	if err := c.cache.WriteListingPage(page, envelope); err != nil {
		return nil, fmt.Errorf("failed to cache page %d: %w", page, err)
	}

	c.logger.Info("listing page fetched",
		zap.Int("page", page),
		zap.Int("items", len(result.MapList.Listings)),
		zap.Duration("elapsed", elapsed))
	return &result, nil
}

func (c *client) addCookies(req *http.Request) {
	cookies := map[string]string{
		"XSRF-TOKEN":     c.cfg.XSRFToken,
		"cf_clearance":   c.cfg.CfClearance,
		"botble_session": c.cfg.BotbleSession,
	}
	if c.cfg.RememberAccountName != "" && c.cfg.RememberAccount != "" {
		cookies["remember_account_"+c.cfg.RememberAccountName] = c.cfg.RememberAccount
	}
	for name, value := range cookies {
		if value == "" {
			continue
		}
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}
