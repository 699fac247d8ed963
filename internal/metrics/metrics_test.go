package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScan(time.Second)
		m.CountContext("created")
		m.CountRun("SUCCEEDED")
		m.ObserveSend("SMS", "SUCCESS", time.Millisecond)
		m.CountDeliveryEvent("ok")
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	m.CountContext("created")
	m.ObserveSend("SMS", "FAILED", 20*time.Millisecond)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `ndr_scan_contexts_total{result="created"} 1`)
	assert.Contains(t, body, `ndr_outreach_sends_total{channel="SMS",outcome="FAILED"} 1`)
	assert.Contains(t, body, `ndr_http_requests_total{code="200",method="GET",route="/ping"} 1`)
}
