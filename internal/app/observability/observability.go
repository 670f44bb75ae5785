package observability

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"surveydash/internal/survey"

	"go.uber.org/zap"
)

type key struct {
	Method string
	Path   string
	Status int
}

type stat struct {
	Count     int64
	LatencyMS float64
}

// DatasetInfo summarizes the loaded survey document for the gauges.
type DatasetInfo struct {
	ValidResponses int
	Grades         int
	Questions      int
}

type Collector struct {
	log *zap.Logger

	mu           sync.RWMutex
	requestStats map[key]stat
	scopeViews   map[string]int64
	dataset      DatasetInfo
	startedAt    time.Time
}

func NewCollector(log *zap.Logger) *Collector {
	return &Collector{
		log:          log,
		requestStats: make(map[key]stat),
		scopeViews:   make(map[string]int64),
		startedAt:    time.Now(),
	}
}

// SetDataset records the document shape once after load.
func (c *Collector) SetDataset(info DatasetInfo) {
	c.mu.Lock()
	c.dataset = info
	c.mu.Unlock()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		latencyMS := float64(time.Since(start).Microseconds()) / 1000.0
		path := normalizedPath(r.URL.Path)
		scope := scopeFromRequest(path, r.URL.RawQuery)

		c.mu.Lock()
		k := key{Method: r.Method, Path: path, Status: rec.status}
		s := c.requestStats[k]
		s.Count++
		s.LatencyMS += latencyMS
		c.requestStats[k] = s
		if scope != "" && rec.status < 400 {
			c.scopeViews[scope]++
		}
		c.mu.Unlock()

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", rec.status),
			zap.Float64("latency_ms", latencyMS),
			zap.String("remote_ip", strings.TrimSpace(r.RemoteAddr)),
		}
		if scope != "" {
			fields = append(fields, zap.String("scope", scope))
		}
		c.log.Info("request", fields...)
	})
}

func (c *Collector) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	statsCopy := make(map[key]stat, len(c.requestStats))
	for k, v := range c.requestStats {
		statsCopy[k] = v
	}
	viewsCopy := make(map[string]int64, len(c.scopeViews))
	for k, v := range c.scopeViews {
		viewsCopy[k] = v
	}
	dataset := c.dataset
	startedAt := c.startedAt
	c.mu.RUnlock()

	keys := make([]key, 0, len(statsCopy))
	for k := range statsCopy {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Method != keys[j].Method {
			return keys[i].Method < keys[j].Method
		}
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Status < keys[j].Status
	})

	var sb strings.Builder
	sb.WriteString("# surveydash metrics\n")
	sb.WriteString("# TYPE surveydash_uptime_seconds gauge\n")
	sb.WriteString(fmt.Sprintf("surveydash_uptime_seconds %.0f\n", time.Since(startedAt).Seconds()))

	sb.WriteString("# TYPE surveydash_http_requests_total counter\n")
	sb.WriteString("# TYPE surveydash_http_request_latency_ms_sum counter\n")
	sb.WriteString("# TYPE surveydash_http_request_latency_ms_avg gauge\n")
	for _, k := range keys {
		s := statsCopy[k]
		labels := fmt.Sprintf("method=%q,path=%q,status=\"%d\"", k.Method, k.Path, k.Status)
		sb.WriteString(fmt.Sprintf("surveydash_http_requests_total{%s} %d\n", labels, s.Count))
		sb.WriteString(fmt.Sprintf("surveydash_http_request_latency_ms_sum{%s} %.3f\n", labels, s.LatencyMS))
		avg := 0.0
		if s.Count > 0 {
			avg = s.LatencyMS / float64(s.Count)
		}
		sb.WriteString(fmt.Sprintf("surveydash_http_request_latency_ms_avg{%s} %.3f\n", labels, avg))
	}

	scopes := make([]string, 0, len(viewsCopy))
	for s := range viewsCopy {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	sb.WriteString("# TYPE surveydash_scope_views_total counter\n")
	for _, s := range scopes {
		sb.WriteString(fmt.Sprintf("surveydash_scope_views_total{scope=%q} %d\n", s, viewsCopy[s]))
	}

	sb.WriteString("# TYPE surveydash_survey_valid_responses gauge\n")
	sb.WriteString(fmt.Sprintf("surveydash_survey_valid_responses %d\n", dataset.ValidResponses))
	sb.WriteString("# TYPE surveydash_survey_grades gauge\n")
	sb.WriteString(fmt.Sprintf("surveydash_survey_grades %d\n", dataset.Grades))
	sb.WriteString("# TYPE surveydash_survey_questions gauge\n")
	sb.WriteString(fmt.Sprintf("surveydash_survey_questions %d\n", dataset.Questions))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

func normalizedPath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// scopeFromRequest extracts the scope selection from dashboard and summary
// requests so views can be counted per scope. An absent parameter means the
// whole-school default; other paths report nothing.
func scopeFromRequest(path, rawQuery string) string {
	if path != "/" && path != "/api/v1/survey/summary" && path != "/api/v1/survey/export.xlsx" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	scope := strings.TrimSpace(values.Get("scope"))
	if scope == "" {
		return survey.WholeSchool
	}
	return scope
}
