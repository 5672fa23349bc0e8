package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	Exists(ctx context.Context, playerID string) (bool, error)
	NamesByID(ctx context.Context, playerIDs []string) (map[string]string, error)
}
