package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CharityID is the unique key of a charity. Upstream APIs send it either as a
// JSON number or a string.
type CharityID string

func (id *CharityID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = CharityID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid charity id %s: %w", b, err)
	}
	*id = CharityID(n.String())
	return nil
}

// Charity is one organisation rendered as a card on the donate page
type Charity struct {
	ID          CharityID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Image       string    `json:"img" yaml:"img"`
	Methods     []string  `json:"methods" yaml:"methods"`
}
