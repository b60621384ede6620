package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
)

type UnifiSitesRequest struct {
	APIKey string `json:"apiKey" zog:"apiKey"`
}

var unifiSitesSchema = z.Struct(z.Shape{
	"APIKey": z.String().Required().Min(1),
})

type UnifiConfigRequest struct {
	APIKey      string  `json:"apiKey" zog:"apiKey"`
	NetworkID   string  `json:"networkId" zog:"networkId"`
	NetworkName *string `json:"networkName" zog:"networkName"`
}

var unifiConfigSchema = z.Struct(z.Shape{
	"APIKey":      z.String().Required().Min(1),
	"NetworkID":   z.String().Required().Min(1),
	"NetworkName": z.Ptr(z.String()),
})

// upstreamError reports integration failures with the upstream message, the way the
// dashboard shows them.
func upstreamError(c *gin.Context, err error) {
	common.GetLoggerWith(common.LoggerNameRestfulServer).Warn("UniFi request failed", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (rs *RestfulServer) ListUnifiSites(c *gin.Context) {
	var req UnifiSitesRequest
	if errs := unifiSitesSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing apiKey"})
		return
	}

	sites, err := rs.Unifi.ListSites(c.Request.Context(), req.APIKey)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"networks": sites})
}

func (rs *RestfulServer) SaveUnifiConfig(c *gin.Context) {
	var req UnifiConfigRequest
	if errs := unifiConfigSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	if _, err := rs.Iot.Integration.SaveConfig(c.Request.Context(), userID(c), iot.IntegrationInput{
		APIKey:      req.APIKey,
		NetworkID:   req.NetworkID,
		NetworkName: req.NetworkName,
	}); err != nil {
		respondError(c, err, "Failed to save integration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (rs *RestfulServer) GetUnifiSiteData(c *gin.Context) {
	ctx := c.Request.Context()

	config, apiKey, err := rs.Iot.Integration.GetConfig(ctx, userID(c))
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to load integration")
		return
	}

	siteName := ""
	if config.NetworkName != nil {
		siteName = *config.NetworkName
	}
	data, err := rs.Unifi.SiteData(ctx, apiKey, config.NetworkID, siteName)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
