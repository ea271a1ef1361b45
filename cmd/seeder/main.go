// Command seeder loads the baseline game content a fresh deployment needs:
// badge definitions, a daily challenge for today, a starter set of weekly
// quests, and the default teams. Every insert is idempotent, so rerunning
// the seeder is safe.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/app"
	"github.com/lexleague/lexleague-backend/internal/config"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedBadges(ctx, pool); err != nil {
		logger.Error("seed badges", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedDailyChallenge(ctx, pool); err != nil {
		logger.Error("seed daily challenge", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedQuests(ctx, pool); err != nil {
		logger.Error("seed quests", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedTeams(ctx, pool); err != nil {
		logger.Error("seed teams", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding completed")
}

const insertBadgeSQL = `
INSERT INTO badge_definitions (id, slug, name, description, icon, color, metric, target, reward_points, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, now())
ON CONFLICT (slug) DO NOTHING`

func seedBadges(ctx context.Context, pool *pgxpool.Pool) error {
	badges := []struct {
		slug, name, description, icon, color string
		metric                               domain.ChallengeMetric
		target, reward                       int
	}{
		{"first-steps", "First Steps", "Collect your first 5 vocabulary words.", "book", "blue", domain.MetricWords, 5, 20},
		{"phrase-finder", "Phrase Finder", "Collect 5 expressions.", "chat", "cyan", domain.MetricExpressions, 5, 20},
		{"streak-starter", "Streak Starter", "Review on 3 days in a row.", "flame", "amber", domain.MetricStreak, 3, 30},
		{"point-racer", "Point Racer", "Reach 150 points.", "target", "emerald", domain.MetricPoints, 150, 40},
		{"vocab-sprinter", "Vocab Sprinter", "Collect 20 vocabulary words.", "spark", "violet", domain.MetricWords, 20, 60},
		{"league-contender", "League Contender", "Reach 400 points.", "trophy", "rose", domain.MetricPoints, 400, 80},
	}

	for _, b := range badges {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("badge:"+b.slug))
		_, err := pool.Exec(ctx, insertBadgeSQL,
			id, b.slug, b.name, b.description, b.icon, b.color, string(b.metric), b.target, b.reward)
		if err != nil {
			return err
		}
	}
	return nil
}

const insertChallengeSQL = `
INSERT INTO daily_challenges (id, title, description, metric, target_value, reward_points, challenge_date, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, true)
ON CONFLICT (challenge_date) DO NOTHING`

func seedDailyChallenge(ctx context.Context, pool *pgxpool.Pool) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	_, err := pool.Exec(ctx, insertChallengeSQL,
		uuid.New(),
		"Word of the day",
		"Collect any new vocabulary word today.",
		string(domain.MetricWords), 1, 15, today)
	return err
}

const insertQuestSQL = `
INSERT INTO quests (id, title, description, metric, target_value, reward_points, start_date, end_date, is_active, created_at)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, true, now()
WHERE NOT EXISTS (SELECT 1 FROM quests WHERE title = $2 AND is_active)`

func seedQuests(ctx context.Context, pool *pgxpool.Pool) error {
	weekStart := startOfWeek(time.Now().UTC())
	weekEnd := weekStart.AddDate(0, 0, 7)

	quests := []struct {
		title, description string
		metric             domain.ChallengeMetric
		target, reward     int
	}{
		{"Word collector", "Collect 15 vocabulary words this week.", domain.MetricWords, 15, 75},
		{"Expression hunter", "Collect 5 expressions this week.", domain.MetricExpressions, 5, 60},
		{"Point climber", "Earn 200 points this week.", domain.MetricPoints, 200, 100},
	}

	for _, q := range quests {
		_, err := pool.Exec(ctx, insertQuestSQL,
			uuid.New(), q.title, q.description, string(q.metric), q.target, q.reward, weekStart, weekEnd)
		if err != nil {
			return err
		}
	}
	return nil
}

const insertTeamSQL = `
INSERT INTO teams (id, name, color_hex)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO NOTHING`

func seedTeams(ctx context.Context, pool *pgxpool.Pool) error {
	teams := []struct {
		name, color string
	}{
		{"Red Pandas", "#e74c3c"},
		{"Blue Whales", "#3498db"},
		{"Green Geckos", "#2ecc71"},
	}

	for _, t := range teams {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("team:"+t.name))
		if _, err := pool.Exec(ctx, insertTeamSQL, id, t.name, t.color); err != nil {
			return err
		}
	}
	return nil
}

// startOfWeek returns the Monday 00:00 UTC of the week containing t.
func startOfWeek(t time.Time) time.Time {
	day := t.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
