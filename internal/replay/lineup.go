package replay

import "github.com/DoyleJ11/mst-sync/internal/catalog"

type Fighter struct {
	Port        int
	Character   catalog.Character
	Skin        catalog.Skin
	ConnectCode string
}

// Lineup picks the first two occupied ports as the left and right sides.
// ok is false for anything other than a two-player game.
func Lineup(players [4]Player) (left, right Fighter, ok bool) {
	var found []Fighter
	for _, p := range players {
		if !p.Occupied() {
			continue
		}
		c, known := catalog.CharacterByID(p.CharacterID)
		if !known {
			c = catalog.Random
		}
		found = append(found, Fighter{
			Port:        p.Port,
			Character:   c,
			Skin:        catalog.SkinByCostume(c, p.Costume),
			ConnectCode: p.ConnectCode,
		})
	}
	if len(found) != 2 {
		return Fighter{}, Fighter{}, false
	}
	return found[0], found[1], true
}
