package unifi

import (
	"fmt"
	"slices"
	"strings"
)

var envelopeKeys = []string{"data", "sites", "result", "items"}

// ExtractList accepts a bare array or an object wrapping one under a known key.
func ExtractList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnrecognizedEnvelope, raw)
}

func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func siteFromObject(obj map[string]any) (Site, bool) {
	id, ok := firstString(obj, "siteId", "_id", "id", "site_id", "uuid", "uid")
	if !ok {
		return Site{}, false
	}

	name, ok := firstString(obj, "name")
	if !ok {
		if meta, isMap := obj["meta"].(map[string]any); isMap {
			name, ok = firstString(meta, "name", "desc")
		}
	}
	if !ok {
		name, ok = firstString(obj, "site_name", "siteName", "display_name", "desc")
	}
	if !ok {
		name = id
	}
	return Site{ID: id, Name: name}, true
}

func filterSiteDevices(items []any, siteID, siteName string) []map[string]any {
	devices := []map[string]any{}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var candidates []string
		for _, key := range []string{"site_id", "siteId", "site", "site_name", "siteName"} {
			if s, ok := obj[key].(string); ok {
				candidates = append(candidates, s)
			}
		}
		if slices.Contains(candidates, siteID) || (siteName != "" && slices.Contains(candidates, siteName)) {
			devices = append(devices, obj)
		}
	}
	return devices
}

var offlineStates = []string{"offline", "down", "disconnected", "disabled"}

func computeHealth(devices []map[string]any, statistics map[string]any) []Health {
	devicesStatus := HealthOK
	for _, d := range devices {
		state, _ := firstString(d, "state", "status", "device_state")
		if slices.Contains(offlineStates, strings.ToLower(state)) {
			devicesStatus = HealthDegraded
			break
		}
	}

	internetStatus := HealthOK
	issues, _ := statistics["internetIssues"].([]any)
	for _, issue := range issues {
		obj, ok := issue.(map[string]any)
		if !ok {
			continue
		}
		if obj["highLatency"] == true || obj["wanDowntime"] == true {
			internetStatus = HealthDegraded
			break
		}
	}

	return []Health{
		{Subsystem: "devices", Status: devicesStatus},
		{Subsystem: "internet", Status: internetStatus},
	}
}
