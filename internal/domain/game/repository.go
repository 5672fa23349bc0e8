package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	// Select evaluates a selection plan and returns admitted games in
	// plan order. Games with no recorded sessions under the plan's
	// league restriction are never admitted, except via IncludeIDs.
	Select(ctx context.Context, q Query) ([]Annotated, error)

	Exists(ctx context.Context, gameID string) (bool, error)
	List(ctx context.Context) ([]Game, error)
}
