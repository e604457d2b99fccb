package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var errCartNotObject = errors.New("cart must be a JSON object")

type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// ProductKey parses the line's product id. Lines whose id is not an integer
// never match a catalog product.
func (l CartLine) ProductKey() (int64, bool) {
	id, err := strconv.ParseInt(l.ProductID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Cart is the client-supplied mapping of product id to quantity, kept in the
// order the keys appear in the request document.
type Cart []CartLine

func (c *Cart) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errCartNotObject
	}

	var lines Cart
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errCartNotObject
		}

		var quantity int
		if err := dec.Decode(&quantity); err != nil {
			return fmt.Errorf("cart quantity for %q: %w", key, err)
		}

		// duplicate keys: last value wins, first position is kept
		if i, ok := seen[key]; ok {
			lines[i].Quantity = quantity
			continue
		}
		seen[key] = len(lines)
		lines = append(lines, CartLine{ProductID: key, Quantity: quantity})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = lines
	return nil
}

func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, line := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(line.ProductID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(line.Quantity))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
