package unifi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	_ "liyu1981.xyz/iot-dashboard-service/pkg/testing"
)

const sitesBody = `{"data":[
	{"siteId":"site-a","meta":{"name":"Home","desc":"default","timezone":"Europe/Berlin","gatewayMac":"aa:bb"},
	 "statistics":{"counts":{"totalDevice":2},"internetIssues":[{"highLatency":false,"index":1}]}},
	{"_id":"site-b","site_name":"Office"},
	{"name":"no id here"},
	"garbage"
]}`

const devicesBody = `[
	{"mac":"01","siteId":"site-a","state":"online"},
	{"mac":"02","site_name":"Home","status":"online"},
	{"mac":"03","siteId":"site-b","state":"offline"}
]`

func newTestUpstream(t *testing.T, sites, devices string, devicesStatus int) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "key-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/sites":
			w.Write([]byte(sites))
		case "/devices":
			w.WriteHeader(devicesStatus)
			w.Write([]byte(devices))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListSites(t *testing.T) {
	common.SetTestLoggerNop()
	srv := newTestUpstream(t, sitesBody, devicesBody, http.StatusOK)

	sites, err := NewClient(srv.URL).ListSites(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, []Site{
		{ID: "site-a", Name: "Home"},
		{ID: "site-b", Name: "Office"},
	}, sites)
}

func TestListSites_Errors(t *testing.T) {
	common.SetTestLoggerNop()
	srv := newTestUpstream(t, `{"unexpected":true}`, devicesBody, http.StatusOK)
	client := NewClient(srv.URL)

	_, err := client.ListSites(context.Background(), "key-1")
	assert.ErrorIs(t, err, ErrUnrecognizedEnvelope)

	_, err = client.ListSites(context.Background(), "wrong-key")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSiteData(t *testing.T) {
	common.SetTestLoggerNop()
	srv := newTestUpstream(t, sitesBody, devicesBody, http.StatusOK)

	data, err := NewClient(srv.URL).SiteData(context.Background(), "key-1", "site-a", "Home")
	require.NoError(t, err)

	assert.Equal(t, "site-a", data.SiteID)
	assert.Equal(t, "Home", data.SiteName)
	assert.Equal(t, "Europe/Berlin", data.Timezone)
	assert.Equal(t, "aa:bb", data.GatewayMac)
	assert.Len(t, data.Devices, 2)
	assert.Equal(t, []Health{
		{Subsystem: "devices", Status: HealthOK},
		{Subsystem: "internet", Status: HealthOK},
	}, data.Health)
}

func TestSiteData_DevicesUnavailable(t *testing.T) {
	common.SetTestLoggerNop()
	srv := newTestUpstream(t, sitesBody, "", http.StatusBadGateway)

	data, err := NewClient(srv.URL).SiteData(context.Background(), "key-1", "site-a", "")
	require.NoError(t, err)
	assert.Empty(t, data.Devices)

	_, err = NewClient(srv.URL).SiteData(context.Background(), "key-1", "site-z", "")
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestExtractList(t *testing.T) {
	for _, raw := range []any{
		[]any{1},
		map[string]any{"data": []any{1}},
		map[string]any{"sites": []any{1}},
		map[string]any{"result": []any{1}},
		map[string]any{"items": []any{1}},
	} {
		list, err := ExtractList(raw)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}

	for _, raw := range []any{nil, "x", map[string]any{"data": "x"}} {
		_, err := ExtractList(raw)
		assert.ErrorIs(t, err, ErrUnrecognizedEnvelope)
	}
}

func TestComputeHealth(t *testing.T) {
	health := computeHealth(
		[]map[string]any{{"state": "DISCONNECTED"}},
		map[string]any{"internetIssues": []any{map[string]any{"wanDowntime": true}}},
	)
	assert.Equal(t, HealthDegraded, health[0].Status)
	assert.Equal(t, HealthDegraded, health[1].Status)

	health = computeHealth(nil, nil)
	assert.Equal(t, HealthOK, health[0].Status)
	assert.Equal(t, HealthOK, health[1].Status)
}
