package clients

// ExternalSource identifies where the player catalog is loaded from
type ExternalSource string

const (
	// ExternalSourceSleeper is the public Sleeper players API
	ExternalSourceSleeper ExternalSource = "sleeper"

	// ExternalSourcePostgres is the players table seeded by tools/seed_players
	ExternalSourcePostgres ExternalSource = "postgres"

	// ExternalSourceFile is a local JSON file
	ExternalSourceFile ExternalSource = "file"
)

// ExternalSourceConfig describes an external source
type ExternalSourceConfig struct {
	Source      ExternalSource `json:"source"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	NeedsDB     bool           `json:"needs_db"`
}

// GetExternalSources returns all known player sources
func GetExternalSources() map[ExternalSource]ExternalSourceConfig {
	return map[ExternalSource]ExternalSourceConfig{
		ExternalSourceSleeper: {
			Source:      ExternalSourceSleeper,
			Name:        "Sleeper",
			Description: "Sleeper public NFL players endpoint",
		},
		ExternalSourcePostgres: {
			Source:      ExternalSourcePostgres,
			Name:        "Postgres",
			Description: "Seeded players table",
			NeedsDB:     true,
		},
		ExternalSourceFile: {
			Source:      ExternalSourceFile,
			Name:        "File",
			Description: "Players JSON file on disk",
		},
	}
}

// ValidateExternalSource checks if the source is valid
func ValidateExternalSource(source ExternalSource) bool {
	_, exists := GetExternalSources()[source]
	return exists
}
