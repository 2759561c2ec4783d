package player

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// FileSource reads players from a JSON array on disk.
type FileSource struct {
	Path string
}

func (s FileSource) FetchPlayers(ctx context.Context) ([]models.Player, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read players file: %w", err)
	}
	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("unmarshal players file: %w", err)
	}
	return players, nil
}

// Querier is the subset of *pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the players table written by tools/seed_players.
type PostgresSource struct {
	db    Querier
	limit int
}

func NewPostgresSource(db Querier, limit int) *PostgresSource {
	return &PostgresSource{db: db, limit: limit}
}

const listPlayersSQL = `
SELECT id, name, position, team, rank,
       projected_points, adp, bye_week, last_year_points,
       external_id, age, experience, injury_status, injury_description
FROM players
ORDER BY rank, name
LIMIT $1`

func (s *PostgresSource) FetchPlayers(ctx context.Context) ([]models.Player, error) {
	limit := s.limit
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.Query(ctx, listPlayersSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var (
			p                                   models.Player
			team, external, injury, injuryDesc *string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Position, &team, &p.Rank,
			&p.ProjectedPoints, &p.ADP, &p.ByeWeek, &p.LastYearPoints,
			&external, &p.Age, &p.Experience, &injury, &injuryDesc,
		); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Team = deref(team)
		p.ExternalID = deref(external)
		p.InjuryStatus = deref(injury)
		p.InjuryDescription = deref(injuryDesc)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
