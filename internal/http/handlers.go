package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"salesdash/internal/core"
	"salesdash/internal/dashboard"
	"salesdash/internal/journal"
	"salesdash/internal/log"
	"salesdash/internal/middleware/trace"
)

const (
	fieldCategory = "category"
	fieldSales    = "sales"

	maxBodyBytes = 64 << 10

	defaultActivityLimit = 20
	maxActivityLimit     = 200
)

// handleIndex renders the full page for the current session. A visitor
// without a session sees the seed data; the session is created on the
// first update.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if errResp := RequireMethod(r, http.MethodGet, http.MethodHead); errResp != nil {
		errResp.Write(w)
		return
	}

	ds, ok := s.sessions.Get(s.sessionID(r))
	if !ok {
		ds = core.SeedDataset()
	}
	res := dashboard.Update(core.TriggerInitialLoad, core.Form{}, ds)
	s.countUpdate(core.TriggerInitialLoad, res.Accepted)

	s.render(w, r, "index.html", newPageView(res), NewHTMXResponse())
}

// handleDashboard runs one update cycle for the Add and Reset buttons.
// Validation failures are reported inside the rendered dashboard with a
// 200 status so htmx swaps them in.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if errResp := RequirePOST(r); errResp != nil {
		errResp.Write(w)
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	parser := NewRequestBodyParser(r)
	if errResp := parser.ParseOrFail(); errResp != nil {
		logger.WarnContext(ctx, "Failed to parse dashboard request",
			log.FieldPath, r.URL.Path,
			log.FieldErrorType, log.ErrorTypeValidation)
		errResp.Write(w)
		return
	}

	values := parser.Values()
	trig := core.TriggerFromForm(values)
	form := core.Form{Category: values.Get(fieldCategory), Sales: values.Get(fieldSales)}

	var res dashboard.Result
	sid, created := s.sessions.Update(s.sessionID(r), func(ds core.Dataset) core.Dataset {
		res = dashboard.Update(trig, form, ds)
		return res.Dataset
	})
	if created {
		logger.DebugContext(ctx, "Session started", log.FieldSessionID, sid)
	}
	s.setSessionCookie(w, r, sid)
	s.countUpdate(trig, res.Accepted)

	if trig != core.TriggerInitialLoad {
		s.activity.Record(ctx, core.NewEvent(sid, trig, form, res.Accepted, res.Dataset.Len()))
	}
	s.structLog.LogDashboardUpdate(ctx, sid, trig.String(), res.Accepted, res.Dataset.Len())

	switch {
	case parser.IsJSON() || wantsJSON(r):
		writeJSON(w, r, http.StatusOK, newUpdateResponse(res))
	case isHTMX(r):
		b := NewHTMXResponse().TriggerDashboardUpdated(res.Dataset.Len(), res.Accepted)
		if res.Accepted && trig != core.TriggerInitialLoad {
			b.TriggerFormReset()
		}
		s.render(w, r, "dashboard", newPageView(res), b)
	default:
		s.render(w, r, "index.html", newPageView(res), NewHTMXResponse())
	}
}

// handleChart returns the current session's chart as a Plotly figure.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	ds, ok := s.sessions.Get(s.sessionID(r))
	if !ok {
		ds = core.SeedDataset()
	}
	res := dashboard.Update(core.TriggerInitialLoad, core.Form{}, ds)
	writeJSON(w, r, http.StatusOK, res.Chart.Figure())
}

// handleActivity lists the most recent journal entries, newest first.
// Session IDs are not exposed; entries from the caller's own session are
// flagged instead.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			BadRequestError("limit must be a positive integer").Write(w)
			return
		}
		limit = min(n, maxActivityLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	events, err := s.activity.Journal().Recent(ctx, limit)
	if err != nil {
		s.structLog.LogError(ctx, "Failed to read activity journal", err, log.ComponentJournal, log.OpQuery,
			log.NewFields().WithRequestID(trace.GetRequestID(ctx)))
		InternalServerError("Activity journal unavailable").Write(w)
		return
	}
	writeJSON(w, r, http.StatusOK, newActivityResponse(events, s.sessionID(r), limit))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, view pageView, b *HTMXResponseBuilder) {
	if s.templates == nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		InternalServerError("Templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, view); err != nil {
		s.structLog.LogError(r.Context(), "Template execution failed", err, log.ComponentTemplate, log.OpRender,
			log.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
		InternalServerError("Something went wrong rendering the dashboard").Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}

func (s *Server) countUpdate(trig core.Trigger, accepted bool) {
	switch trig {
	case core.TriggerAdd:
		s.appMetrics.adds.Add(1)
	case core.TriggerReset:
		s.appMetrics.resets.Add(1)
	default:
		s.appMetrics.initialLoad.Add(1)
	}
	if !accepted {
		s.appMetrics.rejected.Add(1)
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}
	writeJSON(w, r, http.StatusOK, health)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	j := s.activity.Journal()
	if p, ok := j.(journal.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["journal_connection"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["journal_connection"] = "ok"
		}
	}

	if n, err := j.Count(ctx); err != nil {
		checks["journal"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["journal"] = map[string]interface{}{
			"events": n,
			"status": "ok",
		}
	}

	checks["sessions"] = map[string]interface{}{
		"active":  s.sessions.Size(),
		"evicted": s.sessions.Evicted(),
		"status":  "ok",
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}
	writeJSON(w, r, httpStatus, response)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	activity := s.activity.Stats()
	uptime := time.Since(s.appMetrics.uptime)

	w.WriteHeader(http.StatusOK)

	// Write metrics in Prometheus-like format
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_responses_total HTTP responses by status class\n")
	fmt.Fprintf(w, "# TYPE http_responses_total counter\n")
	fmt.Fprintf(w, "http_responses_total{class=\"2xx\"} %d\n", traceMetrics.Status2xx)
	fmt.Fprintf(w, "http_responses_total{class=\"3xx\"} %d\n", traceMetrics.Status3xx)
	fmt.Fprintf(w, "http_responses_total{class=\"4xx\"} %d\n", traceMetrics.Status4xx)
	fmt.Fprintf(w, "http_responses_total{class=\"5xx\"} %d\n\n", traceMetrics.Status5xx)

	fmt.Fprintf(w, "# HELP dashboard_updates_total Dashboard updates by trigger\n")
	fmt.Fprintf(w, "# TYPE dashboard_updates_total counter\n")
	fmt.Fprintf(w, "dashboard_updates_total{trigger=\"initial_load\"} %d\n", s.appMetrics.initialLoad.Load())
	fmt.Fprintf(w, "dashboard_updates_total{trigger=\"add\"} %d\n", s.appMetrics.adds.Load())
	fmt.Fprintf(w, "dashboard_updates_total{trigger=\"reset\"} %d\n\n", s.appMetrics.resets.Load())

	fmt.Fprintf(w, "# HELP dashboard_rejected_total Add submissions rejected by validation\n")
	fmt.Fprintf(w, "# TYPE dashboard_rejected_total counter\n")
	fmt.Fprintf(w, "dashboard_rejected_total %d\n\n", s.appMetrics.rejected.Load())

	fmt.Fprintf(w, "# HELP sessions_active Live dashboard sessions\n")
	fmt.Fprintf(w, "# TYPE sessions_active gauge\n")
	fmt.Fprintf(w, "sessions_active %d\n\n", s.sessions.Size())

	fmt.Fprintf(w, "# HELP sessions_evicted_total Sessions evicted because the store was full\n")
	fmt.Fprintf(w, "# TYPE sessions_evicted_total counter\n")
	fmt.Fprintf(w, "sessions_evicted_total %d\n\n", s.sessions.Evicted())

	fmt.Fprintf(w, "# HELP activity_events_total Activity events by outcome\n")
	fmt.Fprintf(w, "# TYPE activity_events_total counter\n")
	fmt.Fprintf(w, "activity_events_total{outcome=\"recorded\"} %d\n", activity.Recorded)
	fmt.Fprintf(w, "activity_events_total{outcome=\"record_error\"} %d\n", activity.RecordErrors)
	fmt.Fprintf(w, "activity_events_total{outcome=\"published\"} %d\n", activity.Published)
	fmt.Fprintf(w, "activity_events_total{outcome=\"publish_error\"} %d\n\n", activity.PublishErrors)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}
