package snake

import "github.com/hoshinonyaruko/snake-in-grid/structs"

// respawnFood refills food slots once the respawn interval has passed.
// With RespawnAll every slot moves, otherwise only eaten ones. A slot that
// cannot be placed stays inactive and ErrBoardFull is returned.
func (g *Game) respawnFood() error {
	if !g.foodGate.Admit(g.settings.FoodRespawn, false) {
		return nil
	}

	var err error
	for i := range g.foods {
		if !g.settings.RespawnAll && g.foods[i].Active() {
			continue
		}
		// the slot must not count as occupied while it is being moved
		g.foods[i].Score = 0
		c, placeErr := g.RandomEmptyCell()
		if placeErr != nil {
			err = placeErr
			continue
		}
		g.foods[i] = structs.Food{Cell: c, Score: 1}
	}
	return err
}
