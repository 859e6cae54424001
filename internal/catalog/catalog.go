package catalog

import "strings"

type Character string

const (
	CaptainFalcon Character = "Captain Falcon"
	DonkeyKong    Character = "Donkey Kong"
	Fox           Character = "Fox"
	GameAndWatch  Character = "Mr. Game & Watch"
	Kirby         Character = "Kirby"
	Bowser        Character = "Bowser"
	Link          Character = "Link"
	Luigi         Character = "Luigi"
	Mario         Character = "Mario"
	Marth         Character = "Marth"
	Mewtwo        Character = "Mewtwo"
	Ness          Character = "Ness"
	Peach         Character = "Peach"
	Pikachu       Character = "Pikachu"
	IceClimbers   Character = "Ice Climbers"
	Jigglypuff    Character = "Jigglypuff"
	Samus         Character = "Samus"
	Yoshi         Character = "Yoshi"
	Zelda         Character = "Zelda"
	Sheik         Character = "Sheik"
	Falco         Character = "Falco"
	YoungLink     Character = "Young Link"
	DrMario       Character = "Dr. Mario"
	Roy           Character = "Roy"
	Pichu         Character = "Pichu"
	Ganondorf     Character = "Ganondorf"
	Random        Character = "Random"
)

type Skin string

const (
	SkinDefault Skin = "Default"
	SkinRed     Skin = "Red"
	SkinBlue    Skin = "Blue"
	SkinGreen   Skin = "Green"
	SkinWhite   Skin = "White"
	SkinBlack   Skin = "Black"
	SkinYellow  Skin = "Yellow"
	SkinPink    Skin = "Pink"
	SkinOrange  Skin = "Orange"
	SkinPurple  Skin = "Purple"
	SkinCyan    Skin = "Cyan"
	SkinDaisy   Skin = "Daisy"
)

// Replays store characters by their external id, which is the index here.
var roster = []Character{
	CaptainFalcon, DonkeyKong, Fox, GameAndWatch, Kirby, Bowser, Link, Luigi,
	Mario, Marth, Mewtwo, Ness, Peach, Pikachu, IceClimbers, Jigglypuff,
	Samus, Yoshi, Zelda, Sheik, Falco, YoungLink, DrMario, Roy, Pichu, Ganondorf,
}

// Skins are listed in costume-index order; the first entry is the default.
var skins = map[Character][]Skin{
	CaptainFalcon: {SkinDefault, SkinBlack, SkinRed, SkinWhite, SkinGreen, SkinBlue},
	DonkeyKong:    {SkinDefault, SkinBlack, SkinRed, SkinBlue, SkinGreen},
	Fox:           {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	GameAndWatch:  {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	Kirby:         {SkinDefault, SkinYellow, SkinBlue, SkinRed, SkinGreen, SkinWhite},
	Bowser:        {SkinDefault, SkinRed, SkinBlue, SkinBlack},
	Link:          {SkinDefault, SkinRed, SkinBlue, SkinBlack, SkinWhite},
	Luigi:         {SkinDefault, SkinWhite, SkinBlue, SkinPink},
	Mario:         {SkinDefault, SkinYellow, SkinBlack, SkinBlue, SkinGreen},
	Marth:         {SkinDefault, SkinRed, SkinGreen, SkinBlack, SkinWhite},
	Mewtwo:        {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	Ness:          {SkinDefault, SkinYellow, SkinBlue, SkinGreen},
	Peach:         {SkinDefault, SkinDaisy, SkinWhite, SkinBlue, SkinGreen},
	Pikachu:       {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	IceClimbers:   {SkinDefault, SkinGreen, SkinOrange, SkinRed},
	Jigglypuff:    {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinYellow},
	Samus:         {SkinDefault, SkinPink, SkinBlack, SkinGreen, SkinPurple},
	Yoshi:         {SkinDefault, SkinRed, SkinBlue, SkinYellow, SkinPink, SkinCyan},
	Zelda:         {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinWhite},
	Sheik:         {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinWhite},
	Falco:         {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	YoungLink:     {SkinDefault, SkinRed, SkinBlue, SkinWhite, SkinBlack},
	DrMario:       {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinBlack},
	Roy:           {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinYellow},
	Pichu:         {SkinDefault, SkinRed, SkinBlue, SkinGreen},
	Ganondorf:     {SkinDefault, SkinRed, SkinBlue, SkinGreen, SkinPurple},
	Random:        {SkinDefault},
}

// CharacterByID maps an in-game external character id to its name.
func CharacterByID(id uint8) (Character, bool) {
	if int(id) >= len(roster) {
		return "", false
	}
	return roster[id], true
}

// Roster returns every selectable character plus Random. Sheik is left out;
// she is picked through Zelda.
func Roster() []Character {
	out := make([]Character, 0, len(roster))
	for _, c := range roster {
		if c == Sheik {
			continue
		}
		out = append(out, c)
	}
	return append(out, Random)
}

// Skins returns the valid skins for c, default first. Unknown characters
// only get the default skin.
func Skins(c Character) []Skin {
	if s, ok := skins[c]; ok {
		return s
	}
	return []Skin{SkinDefault}
}

func DefaultSkin(c Character) Skin {
	return Skins(c)[0]
}

func ValidSkin(c Character, s Skin) bool {
	for _, v := range Skins(c) {
		if v == s {
			return true
		}
	}
	return false
}

// SkinByCostume returns the skin for a replay costume index, falling back to
// the default when the index is out of range.
func SkinByCostume(c Character, costume uint8) Skin {
	list := Skins(c)
	if int(costume) >= len(list) {
		return list[0]
	}
	return list[costume]
}

// SheikPrefix marks a persisted Zelda skin as actually belonging to Sheik.
const SheikPrefix = "Sheik"

// Identity is the tagged form of a character: a base roster entry plus
// whether the hidden alternate is showing.
type Identity struct {
	Base      Character
	Alternate bool
}

func IdentityOf(c Character) Identity {
	if c == Sheik {
		return Identity{Base: Zelda, Alternate: true}
	}
	return Identity{Base: c}
}

func (id Identity) Character() Character {
	if id.Base == Zelda && id.Alternate {
		return Sheik
	}
	return id.Base
}

// ToPersisted folds Sheik into Zelda with a prefixed skin. Other characters
// pass through.
func ToPersisted(c Character, s Skin) (Character, Skin) {
	id := IdentityOf(c)
	if !id.Alternate {
		return c, s
	}
	return id.Base, Skin(SheikPrefix + string(s))
}

// FromPersisted reverses ToPersisted.
func FromPersisted(c Character, s Skin) (Character, Skin) {
	if c != Zelda || !strings.HasPrefix(string(s), SheikPrefix) {
		return c, s
	}
	return Identity{Base: Zelda, Alternate: true}.Character(), Skin(strings.TrimPrefix(string(s), SheikPrefix))
}
