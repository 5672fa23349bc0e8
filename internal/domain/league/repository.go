package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	Exists(ctx context.Context, leagueID string) (bool, error)
	NamesByID(ctx context.Context, leagueIDs []string) (map[string]string, error)
}
