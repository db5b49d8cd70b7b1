package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"clubbet/application"
	"clubbet/config"
	"clubbet/database"
	"clubbet/domain/interfaces"
)

// Server is the HTTP front of the betting engine
type Server struct {
	httpServer *http.Server
	db         *database.DB
}

// NewServer wires the chi router with all handlers
func NewServer(
	cfg *config.Config,
	db *database.DB,
	uowFactory application.UnitOfWorkFactory,
	matchCatalog interfaces.MatchCatalog,
	resultHandler *application.MatchResultHandler,
	leaderboardCache interfaces.LeaderboardCache,
) *Server {
	s := &Server{db: db}

	betHandler := NewBetHandler(uowFactory, matchCatalog, cfg)
	walletHandler := NewWalletHandler(uowFactory, cfg)
	oddsHandler := NewOddsHandler(uowFactory, resultHandler)
	leaderboardHandler := NewLeaderboardHandler(uowFactory, leaderboardCache)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID", "X-Username"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Bets
		r.Post("/bets", betHandler.PlaceBet)
		r.Get("/bets", betHandler.GetBets)
		r.Get("/bets/{betID}", betHandler.GetBet)

		// Wallet
		r.Get("/wallet", walletHandler.GetWallet)
		r.Get("/wallet/transactions", walletHandler.GetTransactions)

		// Odds and settlement
		r.Get("/matches/{matchID}/odds", oddsHandler.GetOdds)
		r.Post("/matches/{matchID}/odds", oddsHandler.PublishOdds)
		r.Get("/matches/{matchID}/odds/history", oddsHandler.GetOddsHistory)
		r.Post("/matches/{matchID}/settle", oddsHandler.SettleMatch)

		// Leaderboard
		r.Get("/leaderboard", leaderboardHandler.GetLeaderboard)
		r.Get("/leaderboard/me", leaderboardHandler.GetMyRank)
		r.Get("/leaderboard/stats", leaderboardHandler.GetStats)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests. Blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "clubbet",
	})
}

// requestLogger logs each request with method, path, status and duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}
