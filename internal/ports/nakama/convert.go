package nakama

import (
	"fmt"

	"tilemerge/internal/app"
	"tilemerge/internal/domain"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// gridList converts a board to a list value usable in a structpb.Struct.
func gridList(board domain.Board) []interface{} {
	values := board.Values()
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// tilesMap converts tile counts to string keys, as struct fields require.
func tilesMap(tiles map[int]int) map[string]interface{} {
	out := make(map[string]interface{}, len(tiles))
	for value, count := range tiles {
		out[fmt.Sprintf("%d", value)] = count
	}
	return out
}

func episodeFields(e domain.Episode) map[string]interface{} {
	return map[string]interface{}{
		"score":    e.Score,
		"moves":    e.Moves,
		"won":      e.Won,
		"max_tile": e.MaxTile,
		"tiles":    tilesMap(e.Tiles),
	}
}

func statsFields(s domain.RunStats) map[string]interface{} {
	return map[string]interface{}{
		"runs":          s.Runs,
		"wins":          s.Wins,
		"win_rate":      s.WinRate(),
		"average_score": s.AverageScore(),
		"min_score":     s.MinScore,
		"max_score":     s.MaxScore,
		"best_tile":     s.BestTile,
		"reached":       tilesMap(s.Reached),
	}
}

// toEventMessage maps an app event to its op code and wire payload.
func toEventMessage(ev app.Event) (int64, *structpb.Struct, error) {
	var opCode int64
	var fields map[string]interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		opCode = OpGameStarted
		fields = map[string]interface{}{"grid": gridList(p.Board)}
	case app.EventMoveApplied:
		p := ev.Payload.(app.MoveAppliedPayload)
		opCode = OpMoveApplied
		fields = map[string]interface{}{
			"move":   p.Move.String(),
			"gained": p.Gained,
			"score":  p.Score,
			"grid":   gridList(p.Board),
		}
	case app.EventTileSpawned:
		p := ev.Payload.(app.TileSpawnedPayload)
		opCode = OpTileSpawned
		fields = map[string]interface{}{
			"row":   p.Cell.Row,
			"col":   p.Cell.Col,
			"value": p.Value,
		}
	case app.EventGameWon:
		p := ev.Payload.(app.GameWonPayload)
		opCode = OpGameWon
		fields = map[string]interface{}{"score": p.Score, "moves": p.Moves}
	case app.EventGameEnded:
		p := ev.Payload.(app.GameEndedPayload)
		opCode = OpGameEnded
		fields = episodeFields(p.Episode)
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s payload: %w", ev.Kind, err)
	}
	return opCode, msg, nil
}

// decodeMessage reads a client payload. An empty payload decodes to no fields.
func decodeMessage(data []byte) (map[string]interface{}, error) {
	msg := &structpb.Struct{}
	if len(data) > 0 {
		if err := proto.Unmarshal(data, msg); err != nil {
			return nil, err
		}
	}
	return msg.AsMap(), nil
}

// encodeMessage is the inverse of decodeMessage, used by clients and tests.
func encodeMessage(fields map[string]interface{}) ([]byte, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// intField reads a struct number, which always arrives as float64.
func intField(fields map[string]interface{}, key string) int {
	f, _ := fields[key].(float64)
	return int(f)
}

func boolField(fields map[string]interface{}, key string) bool {
	b, _ := fields[key].(bool)
	return b
}
