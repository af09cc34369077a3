package query

import (
	"encoding/json"
	"fmt"
)

// Page is a result set paired with the total number of matching rows,
// serialised as the two-element array [items, count].
type Page[T any] struct {
	Items []T
	Count int64
}

func NewPage[T any](items []T, count int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Count: count}
}

func (p Page[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal([]interface{}{items, p.Count})
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("page: expected [items, count], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Items); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &p.Count)
}
