// Package server provides HTTP server initialization and lifecycle
// management for the FieldPulse dashboard backend.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/fieldpulse/fieldpulse/internal/auth"
	"github.com/fieldpulse/fieldpulse/internal/config"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
	"github.com/fieldpulse/fieldpulse/web/handlers"
)

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// getOnly rejects everything but GET before invoking h.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// getOrPost rejects everything but GET and POST before invoking h.
func getOrPost(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Start initializes and starts the HTTP server. It returns the actual
// address being listened on (useful for testing with port 0) and the stats
// hub for wiring KPI broadcasts.
//
// Chart endpoints fall into two groups: the home, marketing and filter
// routes plus a handful of operations routes sit behind the session gate
// and redirect anonymous requests to /login; the remaining operations,
// engagement, admin and debug routes are open, matching the access model
// of the dashboard front end.
func Start(ctx context.Context, cfg *config.Config, wh *warehouse.Warehouse, users *auth.UserStore, companies warehouse.CompanySet) (string, *handlers.StatsHub, error) {
	sessions := auth.NewSessionManager(cfg.Session.Secret)

	basePath := findBasePath()
	authHandler, err := handlers.NewAuthHandler(users, sessions, basePath+"/web/templates/*.html")
	if err != nil {
		return "", nil, fmt.Errorf("server: failed to load templates: %w", err)
	}

	filtersHandler := handlers.NewFiltersHandler(wh)
	homeHandler := handlers.NewHomeHandler(wh, companies)
	marketingHandler := handlers.NewMarketingHandler(wh, companies)
	operationsHandler := handlers.NewOperationsHandler(wh)
	engagementHandler := handlers.NewEngagementHandler(wh)
	adminHandler := handlers.NewAdminHandler(wh)
	debugHandler := handlers.NewDebugHandler(wh, companies)

	statsHub := handlers.NewStatsHub([]string{
		fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		fmt.Sprintf("localhost:%d", cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
	})
	go statsHub.Run()
	handlers.StartKPITicker(ctx, wh, statsHub, time.Duration(cfg.Stats.BroadcastSec)*time.Second)

	rateLimiter := handlers.NewRateLimiter(cfg.Limits.RequestsPerSec, cfg.Limits.Burst)

	// Session-gated routes.
	gatedMux := http.NewServeMux()
	gatedMux.HandleFunc("/", getOnly(authHandler.Index))
	gatedMux.HandleFunc("/api/filters/crops", getOnly(filtersHandler.CropOptions))
	gatedMux.HandleFunc("/api/filters/crop-types", getOnly(filtersHandler.CropTypeOptions))

	gatedMux.HandleFunc("/api/home/kpis", getOnly(homeHandler.KPIs))
	gatedMux.HandleFunc("/api/home/volume-sentiment", getOnly(homeHandler.VolumeSentiment))
	gatedMux.HandleFunc("/api/home/conversation-distribution", getOnly(homeHandler.ConversationDistribution))
	gatedMux.HandleFunc("/api/home/market-share", getOnly(homeHandler.MarketShare))
	gatedMux.HandleFunc("/api/home/competitive-position", getOnly(homeHandler.CompetitivePosition))
	gatedMux.HandleFunc("/api/home/conversation-drivers", getOnly(homeHandler.ConversationDrivers))

	gatedMux.HandleFunc("/api/marketing/brand-health-trend", getOnly(marketingHandler.BrandHealthTrend))
	gatedMux.HandleFunc("/api/marketing/conv-volume-by-topic", getOnly(marketingHandler.ConvVolumeByTopic))
	gatedMux.HandleFunc("/api/marketing/brand-keywords", getOnly(marketingHandler.BrandKeywords))
	gatedMux.HandleFunc("/api/marketing/market-share-trend", getOnly(marketingHandler.MarketShareTrend))
	gatedMux.HandleFunc("/api/marketing/competitive-landscape", getOnly(marketingHandler.CompetitiveLandscape))
	gatedMux.HandleFunc("/api/marketing/sentiment-by-competitor", getOnly(marketingHandler.SentimentByCompetitor))
	gatedMux.HandleFunc("/api/marketing/brand-crop-association", getOnly(marketingHandler.BrandCropAssociation))

	gatedMux.HandleFunc("/api/operations/urgent-issues", getOnly(operationsHandler.UrgentIssues))
	gatedMux.HandleFunc("/api/operations/demand-signal-trend", getOnly(operationsHandler.DemandSignalTrend))
	gatedMux.HandleFunc("/api/operations/demand-change-alert", getOnly(operationsHandler.DemandChangeAlert))
	gatedMux.HandleFunc("/api/operations/crop-pest-heatmap", getOnly(operationsHandler.CropPestHeatmap))
	gatedMux.HandleFunc("/api/operations/problem-trend", getOnly(operationsHandler.ProblemTrend))

	mux := http.NewServeMux()
	mux.Handle("/", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/filters/", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/home/", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/marketing/", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/operations/urgent-issues", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/operations/demand-signal-trend", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/operations/demand-change-alert", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/operations/crop-pest-heatmap", handlers.RequireLogin(gatedMux, sessions))
	mux.Handle("/api/operations/problem-trend", handlers.RequireLogin(gatedMux, sessions))

	// Session lifecycle pages.
	mux.HandleFunc("/login", getOrPost(authHandler.Login))
	mux.HandleFunc("/register", getOrPost(authHandler.Register))
	mux.HandleFunc("/logout", getOnly(authHandler.Logout))

	// Open chart routes.
	mux.HandleFunc("/api/operations/problem-sentiment", getOnly(operationsHandler.ProblemSentiment))
	mux.HandleFunc("/api/operations/crop-keywords", getOnly(operationsHandler.CropKeywords))
	mux.HandleFunc("/api/operations/solution-flow", getOnly(operationsHandler.SolutionFlow))
	mux.HandleFunc("/api/operations/solution-effectiveness", getOnly(operationsHandler.SolutionEffectiveness))
	mux.HandleFunc("/api/operations/solution-sentiment", getOnly(operationsHandler.SolutionSentiment))
	mux.HandleFunc("/api/operations/sentiment-by-crop", getOnly(operationsHandler.SentimentByCrop))

	mux.HandleFunc("/api/engagement/conv-by-region", getOnly(engagementHandler.ConvByRegion))
	mux.HandleFunc("/api/engagement/team-urgency", getOnly(engagementHandler.TeamUrgency))
	mux.HandleFunc("/api/engagement/team-intent", getOnly(engagementHandler.TeamIntent))
	mux.HandleFunc("/api/engagement/quality-by-region", getOnly(engagementHandler.QualityByRegion))
	mux.HandleFunc("/api/engagement/agent-scorecard", getOnly(engagementHandler.AgentScorecard))
	mux.HandleFunc("/api/engagement/agent-leaderboard", getOnly(engagementHandler.AgentLeaderboard))
	mux.HandleFunc("/api/engagement/agent-perf-trend", getOnly(engagementHandler.AgentPerfTrend))
	mux.HandleFunc("/api/engagement/field-leaders", getOnly(engagementHandler.FieldLeaders))
	mux.HandleFunc("/api/engagement/sentiment-by-entity", getOnly(engagementHandler.SentimentByEntity))
	mux.HandleFunc("/api/engagement/topic-distribution", getOnly(engagementHandler.TopicDistribution))
	mux.HandleFunc("/api/engagement/training-needs", getOnly(engagementHandler.TrainingNeeds))

	mux.HandleFunc("/api/admin/users", getOnly(adminHandler.Users))
	mux.HandleFunc("/api/admin/user-activity-log", getOnly(adminHandler.UserActivityLog))
	mux.HandleFunc("/api/admin/completeness-kpi", getOnly(adminHandler.CompletenessKPI))
	mux.HandleFunc("/api/admin/db-stats", getOnly(adminHandler.DBStats))

	mux.HandleFunc("/api/debug/companies", getOnly(debugHandler.Companies))

	// Health endpoint for monitoring.
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	})

	// Static files.
	fs := http.FileServer(http.Dir(basePath + "/web/static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	handler := handlers.AccessLogMiddleware(mux)
	handler = handlers.RateLimitMiddleware(handler, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	// The live stats socket sits outside the logging wrapper: the upgrade
	// needs the raw ResponseWriter.
	outer := http.NewServeMux()
	outer.Handle("/ws", statsHub)
	outer.Handle("/", handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      outer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		statsHub.Stop()
	}()

	return actualAddr, statsHub, nil
}

// findBasePath returns the base path for templates and static assets.
// When running from cmd/fieldpulse-web the project root is two levels up;
// tests may already run from the project root.
func findBasePath() string {
	for _, base := range []string{".", "..", "../.."} {
		if _, err := os.Stat(base + "/web/templates/dashboard.html"); err == nil {
			return base
		}
	}
	return "."
}
