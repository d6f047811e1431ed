package status

import (
	"encoding/json"
	"time"
)

// AllMarker is persisted in place of an unset keyspace or column-family
// scope.
const AllMarker = "<all>"

// ColumnFamilies is the column-family scope of one repair step. An empty
// scope covers all column families and is persisted as the literal "<all>".
type ColumnFamilies []string

func (c ColumnFamilies) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return json.Marshal(AllMarker)
	}
	return json.Marshal([]string(c))
}

func (c *ColumnFamilies) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == AllMarker || single == "" {
			*c = nil
		} else {
			*c = ColumnFamilies{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

// Step identifies one dispatched unit of repair work. Cmd holds the exact
// command line, a resumed run re-invokes it verbatim.
type Step struct {
	Time           Time           `json:"time"`
	Step           int            `json:"step"`
	Start          string         `json:"start"`
	End            string         `json:"end"`
	NodePosition   string         `json:"nodeposition"`
	Keyspace       string         `json:"keyspace"`
	ColumnFamilies ColumnFamilies `json:"column_families"`
	Cmd            string         `json:"cmd"`
}

// NewStep builds a repair step record. An empty keyspace means all
// keyspaces and is stored as the "<all>" marker.
func NewStep(now time.Time, cmd string, step int, start, end, nodePosition, keyspace string, columnFamilies []string) Step {
	if keyspace == "" {
		keyspace = AllMarker
	}
	return Step{
		Time:           NewTime(now),
		Step:           step,
		Start:          start,
		End:            end,
		NodePosition:   nodePosition,
		Keyspace:       keyspace,
		ColumnFamilies: columnFamilies,
		Cmd:            cmd,
	}
}
