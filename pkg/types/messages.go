package types

import "encoding/json"

// Spectate peer protocol. Every frame is a JSON object with an "op" field;
// the rest of the object depends on the op.
//
// Client -> Peer
//   list-broadcasts-request: {}
//   spectate-broadcast-request: { broadcastId: string }
//
// Peer -> Client
//   list-broadcasts-response: { broadcasts: Broadcast[] }
//   spectate-broadcast-response: { broadcastId: string, path: string }
//   spectating-broadcasts-event: { broadcastIds: string[] }
//   dolphin-closed-event: { broadcastId: string }
//   game-end-event: { broadcastId: string, p1Won: bool, p2Won: bool }
//   new-file-event: { broadcastId: string, path: string }

type Op string

const (
	OpListBroadcastsRequest     Op = "list-broadcasts-request"
	OpListBroadcastsResponse    Op = "list-broadcasts-response"
	OpSpectateBroadcastRequest  Op = "spectate-broadcast-request"
	OpSpectateBroadcastResponse Op = "spectate-broadcast-response"
	OpSpectatingBroadcastsEvent Op = "spectating-broadcasts-event"
	OpDolphinClosedEvent        Op = "dolphin-closed-event"
	OpGameEndEvent              Op = "game-end-event"
	OpNewFileEvent              Op = "new-file-event"
)

type Envelope struct {
	Op Op `json:"op"`
}

type Broadcast struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListBroadcastsRequest struct {
	Op Op `json:"op"`
}

type ListBroadcastsResponse struct {
	Op         Op          `json:"op"`
	Broadcasts []Broadcast `json:"broadcasts"`
}

type SpectateBroadcastRequest struct {
	Op          Op     `json:"op"`
	BroadcastID string `json:"broadcastId"`
}

type SpectateBroadcastResponse struct {
	Op          Op     `json:"op"`
	BroadcastID string `json:"broadcastId"`
	Path        string `json:"path"`
}

type SpectatingBroadcastsEvent struct {
	Op           Op       `json:"op"`
	BroadcastIDs []string `json:"broadcastIds"`
}

type DolphinClosedEvent struct {
	Op          Op     `json:"op"`
	BroadcastID string `json:"broadcastId"`
}

type GameEndEvent struct {
	Op          Op     `json:"op"`
	BroadcastID string `json:"broadcastId"`
	P1Won       bool   `json:"p1Won"`
	P2Won       bool   `json:"p2Won"`
}

type NewFileEvent struct {
	Op          Op     `json:"op"`
	BroadcastID string `json:"broadcastId"`
	Path        string `json:"path"`
}

// Decode reads the op of a frame and unmarshals it into the matching type.
func Decode(data []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var msg any
	switch env.Op {
	case OpListBroadcastsResponse:
		msg = &ListBroadcastsResponse{}
	case OpSpectateBroadcastResponse:
		msg = &SpectateBroadcastResponse{}
	case OpSpectatingBroadcastsEvent:
		msg = &SpectatingBroadcastsEvent{}
	case OpDolphinClosedEvent:
		msg = &DolphinClosedEvent{}
	case OpGameEndEvent:
		msg = &GameEndEvent{}
	case OpNewFileEvent:
		msg = &NewFileEvent{}
	case OpListBroadcastsRequest:
		msg = &ListBroadcastsRequest{}
	case OpSpectateBroadcastRequest:
		msg = &SpectateBroadcastRequest{}
	default:
		return nil, &UnknownOpError{Op: env.Op}
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

type UnknownOpError struct{ Op Op }

func (e *UnknownOpError) Error() string { return "unknown op " + string(e.Op) }
