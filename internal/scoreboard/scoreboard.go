package scoreboard

import (
	"strings"

	"github.com/DoyleJ11/mst-sync/internal/catalog"
)

type WL string

const (
	WLNone WL = ""
	WLWin  WL = "W"
	WLLoss WL = "L"
)

type PortColor string

const (
	PortRed    PortColor = "Red"
	PortBlue   PortColor = "Blue"
	PortYellow PortColor = "Yellow"
	PortGreen  PortColor = "Green"
	PortCPU    PortColor = "CPU"
)

type Competitor struct {
	Name      string            `json:"name"`
	Team      string            `json:"team"`
	Character catalog.Character `json:"character"`
	Skin      catalog.Skin      `json:"skin"`
	Color     PortColor         `json:"color"`
	Score     int               `json:"score"`
	WL        WL                `json:"wl"`
}

type Caster struct {
	Name    string `json:"name"`
	Twitter string `json:"twitter"`
	Twitch  string `json:"twitch"`
}

// Scoreboard is everything the overlay shows.
type Scoreboard struct {
	P1         Competitor `json:"p1"`
	P2         Competitor `json:"p2"`
	BestOf     int        `json:"bestOf"`
	Round      string     `json:"round"`
	Tournament string     `json:"tournament"`
	Casters    [2]Caster  `json:"casters"`
}

// EntrantID and SetID are issued by the bracket site. Zero means unset.
type EntrantID int64
type SetID int64

// Tracked is the identity behind the current board. It drives change
// detection and is never written out.
type Tracked struct {
	P1EntrantID EntrantID
	P2EntrantID EntrantID
	SetID       SetID
}

func NewEmpty() Scoreboard {
	return Scoreboard{
		P1:     Competitor{Color: PortRed},
		P2:     Competitor{Color: PortBlue},
		BestOf: 3,
	}
}

func MaxScore(bestOf int) int {
	if bestOf == 5 {
		return 3
	}
	return 2
}

func ClampScore(score, bestOf int) int {
	return max(0, min(score, MaxScore(bestOf)))
}

// IsGrandFinal covers both "Grand Final" and "Grand Final Reset".
func IsGrandFinal(round string) bool {
	return strings.HasPrefix(round, "Grand Final")
}

// BestOfFromAPI maps the bracket's best-of to the two supported formats.
func BestOfFromAPI(n int) int {
	if n == 5 {
		return 5
	}
	return 3
}
