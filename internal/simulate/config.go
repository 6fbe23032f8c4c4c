package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of matches to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for the match generator; equal seeds give equal matches
	OutputFile string        // Optional JSON file receiving the generated matches
	Verbose    bool          // Log every verified match
}

// Stats holds run statistics.
type Stats struct {
	MatchesGenerated  int
	MatchesRegistered int
	MatchesVerified   int
	MatchesFailed     int
	GamesVerified     int
	EventsSeen        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
