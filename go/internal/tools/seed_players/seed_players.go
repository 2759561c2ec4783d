package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/clients/sleeper_client"
	"github.com/mcdev12/dynasty-auction/go/internal/config"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

const createPlayersTable = `
CREATE TABLE IF NOT EXISTS players (
    id                 TEXT PRIMARY KEY,
    name               TEXT    NOT NULL,
    position           TEXT    NOT NULL,
    team               TEXT,
    rank               INTEGER NOT NULL,
    projected_points   DOUBLE PRECISION,
    adp                DOUBLE PRECISION,
    bye_week           INTEGER,
    last_year_points   DOUBLE PRECISION,
    external_id        TEXT,
    age                INTEGER,
    experience         INTEGER,
    injury_status      TEXT,
    injury_description TEXT,
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const upsertPlayer = `
INSERT INTO players (
  id, name, position, team, rank,
  projected_points, adp, bye_week, last_year_points,
  external_id, age, experience, injury_status, injury_description, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  position = EXCLUDED.position,
  team = EXCLUDED.team,
  rank = EXCLUDED.rank,
  projected_points = EXCLUDED.projected_points,
  adp = EXCLUDED.adp,
  bye_week = EXCLUDED.bye_week,
  last_year_points = EXCLUDED.last_year_points,
  external_id = EXCLUDED.external_id,
  age = EXCLUDED.age,
  experience = EXCLUDED.experience,
  injury_status = EXCLUDED.injury_status,
  injury_description = EXCLUDED.injury_description,
  updated_at = NOW()`

func main() {
	file := flag.String("file", "go/internal/assets/players.json", "JSON array of players to seed")
	fromSleeper := flag.Bool("sleeper", false, "fetch players from the Sleeper API instead of -file")
	limit := flag.Int("limit", sleeper_client.DefaultLimit, "maximum players to fetch from Sleeper")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	players, err := loadPlayers(ctx, *file, *fromSleeper, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("load players")
	}

	cfg := config.DatabaseFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createPlayersTable); err != nil {
		log.Fatal().Err(err).Msg("create players table")
	}

	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(upsertPlayer,
			p.ID, p.Name, p.Position, nullable(p.Team), p.Rank,
			p.ProjectedPoints, p.ADP, p.ByeWeek, p.LastYearPoints,
			nullable(p.ExternalID), p.Age, p.Experience, nullable(p.InjuryStatus), nullable(p.InjuryDescription),
		)
	}

	results := pool.SendBatch(ctx, batch)
	upserted, errs := 0, 0
	for _, p := range players {
		tag, err := results.Exec()
		if err != nil {
			errs++
			log.Warn().Err(err).Str("player_id", p.ID).Msg("upsert player")
			continue
		}
		upserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		log.Fatal().Err(err).Msg("close batch")
	}

	fmt.Printf("Players seed: total=%d upserted=%d errors=%d\n", len(players), upserted, errs)
}

func loadPlayers(ctx context.Context, file string, fromSleeper bool, limit int) ([]models.Player, error) {
	if fromSleeper {
		client := sleeper_client.NewSleeperClient(sleeper_client.BaseURL, limit)
		return client.FetchPlayers(ctx)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", file, err)
	}
	return players, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
