package replay

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

var ErrCorruptFile = errors.New("corrupt replay file")
var ErrVersionTooOld = errors.New("replay version too old")
var ErrTimeout = errors.New("timed out waiting for replay file")

// ErrIncomplete means the file is shorter than the current step needs. The
// file is probably still being written.
var ErrIncomplete = errors.New("replay file incomplete")

var magic = []byte{0x7b, 0x55, 0x03, 0x72, 0x61, 0x77, 0x5b, 0x24, 0x55, 0x23, 0x6c}

const (
	rawStart = 15

	cmdEventPayloads byte = 0x35
	cmdGameStart     byte = 0x36

	// 3.9.0 added display names and connect codes.
	minVersion uint32 = 0x03090000

	playerBlockStart  = 0x65
	playerBlockStride = 0x24
	connectCodeStart  = 0x221
	connectCodeLen    = 0x0a

	// Last byte of the fourth connect code, relative to the game-start payload.
	gameStartNeeded = connectCodeStart + 4*connectCodeLen
)

type PlayerType uint8

const (
	PlayerHuman PlayerType = 0
	PlayerCPU   PlayerType = 1
	PlayerDemo  PlayerType = 2
	PlayerEmpty PlayerType = 3
)

type Player struct {
	Port        int        `yaml:"port"`
	Type        PlayerType `yaml:"type"`
	CharacterID uint8      `yaml:"characterId"`
	Costume     uint8      `yaml:"costume"`
	ConnectCode string     `yaml:"connectCode,omitempty"`
}

func (p Player) Human() bool    { return p.Type == PlayerHuman }
func (p Player) Occupied() bool { return p.Type != PlayerEmpty }

// Parse extracts the four player slots from the head of a replay file.
func Parse(data []byte) ([4]Player, error) {
	var players [4]Player

	n := min(len(data), len(magic))
	if !bytes.Equal(data[:n], magic[:n]) {
		return players, fmt.Errorf("%w: bad magic", ErrCorruptFile)
	}
	if len(data) < rawStart+2 {
		return players, ErrIncomplete
	}

	if data[rawStart] != cmdEventPayloads {
		return players, fmt.Errorf("%w: payload directory marker 0x%02x", ErrCorruptFile, data[rawStart])
	}
	dirSize := int(data[rawStart+1])
	if dirSize < 1 {
		return players, fmt.Errorf("%w: empty payload directory", ErrCorruptFile)
	}
	gameStart := rawStart + 1 + dirSize
	if len(data) < gameStart {
		return players, ErrIncomplete
	}

	found := false
	for off := rawStart + 2; off+3 <= gameStart; off += 3 {
		size := binary.BigEndian.Uint16(data[off+1 : off+3])
		if size == 0 {
			return players, fmt.Errorf("%w: zero-length payload 0x%02x", ErrCorruptFile, data[off])
		}
		if data[off] == cmdGameStart {
			found = true
		}
	}
	if !found {
		return players, fmt.Errorf("%w: no game start payload", ErrCorruptFile)
	}

	if len(data) < gameStart+1 {
		return players, ErrIncomplete
	}
	if data[gameStart] != cmdGameStart {
		return players, fmt.Errorf("%w: game start marker 0x%02x", ErrCorruptFile, data[gameStart])
	}
	if len(data) < gameStart+5 {
		return players, ErrIncomplete
	}
	version := binary.BigEndian.Uint32(data[gameStart+1 : gameStart+5])
	if version < minVersion {
		return players, fmt.Errorf("%w: %s", ErrVersionTooOld, versionString(version))
	}
	if len(data) < gameStart+gameStartNeeded {
		return players, ErrIncomplete
	}

	payload := data[gameStart:]
	for i := range players {
		block := playerBlockStart + playerBlockStride*i
		code, err := decodeConnectCode(payload[connectCodeStart+connectCodeLen*i : connectCodeStart+connectCodeLen*(i+1)])
		if err != nil {
			return players, fmt.Errorf("%w: port %d connect code: %v", ErrCorruptFile, i+1, err)
		}
		players[i] = Player{
			Port:        i + 1,
			CharacterID: payload[block],
			Type:        PlayerType(payload[block+1]),
			Costume:     payload[block+3],
			ConnectCode: code,
		}
	}
	return players, nil
}

func decodeConnectCode(raw []byte) (string, error) {
	raw = bytes.TrimRight(raw, "\x00")
	if len(raw) == 0 {
		return "", nil
	}
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(out), "＃", "#"), nil
}

func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>24, (v>>16)&0xff, (v>>8)&0xff)
}
