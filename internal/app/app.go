package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql (goose)
	"github.com/pressly/goose/v3"

	"github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	badgerepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/badge"
	boostrepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/boost"
	challengerepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/challenge"
	duelrepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/duel"
	entryrepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/entry"
	profilerepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/profile"
	reviewrepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/review"
	streamrepo "github.com/lexleague/lexleague-backend/internal/adapter/postgres/stream"
	"github.com/lexleague/lexleague-backend/internal/auth"
	"github.com/lexleague/lexleague-backend/internal/config"
	"github.com/lexleague/lexleague-backend/internal/service/badge"
	"github.com/lexleague/lexleague-backend/internal/service/collect"
	"github.com/lexleague/lexleague-backend/internal/service/duel"
	"github.com/lexleague/lexleague-backend/internal/service/leaderboard"
	"github.com/lexleague/lexleague-backend/internal/service/points"
	"github.com/lexleague/lexleague-backend/internal/service/quest"
	"github.com/lexleague/lexleague-backend/internal/service/review"
	"github.com/lexleague/lexleague-backend/internal/service/student"
	"github.com/lexleague/lexleague-backend/internal/transport/middleware"
	"github.com/lexleague/lexleague-backend/internal/transport/rest"
	"github.com/lexleague/lexleague-backend/migrations"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, wires every service behind the REST
// router, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied")

	// Repositories.
	txm := postgres.NewTxManager(pool)
	profiles := profilerepo.New(pool)
	entries := entryrepo.New(pool)
	reviews := reviewrepo.New(pool)
	badges := badgerepo.New(pool)
	challenges := challengerepo.New(pool)
	boosts := boostrepo.New(pool)
	duels := duelrepo.New(pool)
	stream := streamrepo.New(pool)

	// Services.
	pointsSvc := points.NewService(logger, profiles, boosts, stream)
	badgeSvc := badge.NewService(logger, badges, pointsSvc)
	studentSvc := student.NewService(logger, profiles, entries)
	collectSvc := collect.NewService(logger, entries, reviews, challenges, pointsSvc, cfg.Game.UniquenessScanLimit)
	reviewSvc := review.NewService(logger, reviews, profiles, pointsSvc, studentSvc, badgeSvc)
	questSvc := quest.NewService(logger, challenges, studentSvc)
	duelSvc := duel.NewService(logger, duels, txm, pointsSvc)
	leaderboardSvc := leaderboard.NewService(logger, profiles)

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	// HTTP surface.
	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Collect:     rest.NewCollectHandler(collectSvc, logger),
		Review:      rest.NewReviewHandler(reviewSvc, cfg.Game.ReviewDueLimit, logger),
		Student:     rest.NewStudentHandler(studentSvc, logger),
		Quest:       rest.NewQuestHandler(questSvc, logger),
		Badge:       rest.NewBadgeHandler(badgeSvc, studentSvc, logger),
		Duel:        rest.NewDuelHandler(duelSvc, logger),
		Leaderboard: rest.NewLeaderboardHandler(leaderboardSvc, logger),
		Boost:       rest.NewBoostHandler(pointsSvc, logger),
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	// Auth runs before the limiter and the access log, so buckets key on the
	// authenticated student and log lines carry the user.
	apiMW := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtMgr),
		limiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Logger(logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      rest.NewRouter(handlers, apiMW),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// migrate brings the schema up to date from the embedded goose migrations.
// goose needs database/sql, so it gets its own short-lived connection.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
