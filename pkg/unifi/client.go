package unifi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
)

const DefaultBaseURL = "https://api.ui.com/v1"

var (
	ErrUnrecognizedEnvelope = errors.New("unifi: unrecognized response envelope")
	ErrUpstream             = errors.New("unifi: upstream request failed")
	ErrSiteNotFound         = errors.New("unifi: site not found")
)

type Site struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Health struct {
	Subsystem string `json:"subsystem"`
	Status    string `json:"status"`
}

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// SiteData is the dashboard aggregate for one site: metadata, raw statistics, the
// devices that belong to it and a derived health summary.
type SiteData struct {
	SiteID          string           `json:"siteId,omitempty"`
	SiteName        string           `json:"siteName,omitempty"`
	SiteDescription string           `json:"siteDescription,omitempty"`
	Timezone        string           `json:"timezone,omitempty"`
	GatewayMac      string           `json:"gatewayMac,omitempty"`
	Statistics      map[string]any   `json:"statistics,omitempty"`
	Health          []Health         `json:"health"`
	Devices         []map[string]any `json:"devices"`
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: common.GetLoggerWith(common.LoggerNameUnifiClient),
	}
}

func (c *Client) get(ctx context.Context, apiKey, path string) ([]any, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", apiKey).
		Get(path)
	if err != nil {
		c.logger.Error("UniFi request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if resp.IsError() {
		c.logger.Warn("UniFi returned error status", zap.String("path", path), zap.Int("status_code", resp.StatusCode()))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode())
	}

	var raw any
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognizedEnvelope, err)
	}
	return ExtractList(raw)
}

// ListSites returns every site the key can see, skipping entries with no usable id.
func (c *Client) ListSites(ctx context.Context, apiKey string) ([]Site, error) {
	items, err := c.get(ctx, apiKey, "/sites")
	if err != nil {
		return nil, err
	}

	sites := make([]Site, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if site, ok := siteFromObject(obj); ok {
			sites = append(sites, site)
		}
	}

	c.logger.Info("Listed UniFi sites", zap.Int("count", len(sites)))
	return sites, nil
}

// SiteData aggregates the selected site. A failed device listing degrades to no devices.
func (c *Client) SiteData(ctx context.Context, apiKey, siteID, siteName string) (*SiteData, error) {
	items, err := c.get(ctx, apiKey, "/sites")
	if err != nil {
		return nil, err
	}

	var selected map[string]any
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok && obj["siteId"] == siteID {
			selected = obj
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}

	devices := []map[string]any{}
	if all, err := c.get(ctx, apiKey, "/devices"); err == nil {
		devices = filterSiteDevices(all, siteID, siteName)
	} else {
		c.logger.Warn("UniFi device listing unavailable", zap.Error(err))
	}

	meta, _ := selected["meta"].(map[string]any)
	statistics, _ := selected["statistics"].(map[string]any)

	data := &SiteData{
		SiteID:          stringField(selected, "siteId"),
		SiteName:        stringField(meta, "name"),
		SiteDescription: stringField(meta, "desc"),
		Timezone:        stringField(meta, "timezone"),
		GatewayMac:      stringField(meta, "gatewayMac"),
		Statistics:      statistics,
		Devices:         devices,
		Health:          computeHealth(devices, statistics),
	}
	return data, nil
}
