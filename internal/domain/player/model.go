package player

import "fmt"

// Player is a club member who appears on leaderboards.
type Player struct {
	ID        string
	Name      string
	Nickname  string
	BGGName   string
	LeagueIDs []string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Nickname == "" {
		return fmt.Errorf("player nickname is required")
	}

	return nil
}
