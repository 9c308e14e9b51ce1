package act

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashLog returns the hex SHA-256 of the log's canonical encoding. Same
// log, same hash, regardless of how the actions were produced.
func HashLog(log []Action) (string, error) {
	b, err := MarshalCanonical(log)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// rawAction is the decode envelope: kind plus the union of all variant
// fields.
type rawAction struct {
	Kind   Kind     `json:"kind"`
	Center string   `json:"center"`
	Radius string   `json:"radius_point"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	OfA    string   `json:"of_a"`
	OfB    string   `json:"of_b"`
	Which  int      `json:"which"`
	Label  string   `json:"label"`
	Prop   string   `json:"prop"`
	Inputs []string `json:"inputs"`
}

// UnmarshalLog decodes a serialized action log. The canonical encoding is
// valid JSON, so this accepts its own output as well as hand-written
// logs.
func UnmarshalLog(data []byte) ([]Action, error) {
	var raws []rawAction
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding action log: %w", err)
	}
	log := make([]Action, 0, len(raws))
	for i, r := range raws {
		switch r.Kind {
		case KindCircle:
			log = append(log, DrawCircle{CenterID: r.Center, RadiusPointID: r.Radius})
		case KindSegment:
			log = append(log, DrawSegment{FromID: r.From, ToID: r.To})
		case KindIntersection:
			log = append(log, MarkIntersection{OfA: r.OfA, OfB: r.OfB, Which: r.Which, Label: r.Label})
		case KindMacro:
			log = append(log, InvokeMacro{PropID: r.Prop, InputPointIDs: r.Inputs})
		default:
			return nil, fmt.Errorf("action %d: unknown kind %q", i, r.Kind)
		}
	}
	return log, nil
}
