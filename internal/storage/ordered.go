package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// encodeOrdered writes the day logs as a JSON object whose members appear in
// the given key order. encoding/json would sort map keys, losing the
// first-write order the recent series depends on.
func encodeOrdered(order []daykey.DayKey, logs map[daykey.DayKey]models.DayLog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(logs[k])
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeOrdered reads a JSON object of day logs, keeping member order.
// A key repeated in the document keeps its first position and last value.
func decodeOrdered(data []byte) ([]daykey.DayKey, map[daykey.DayKey]models.DayLog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var order []daykey.DayKey
	logs := make(map[daykey.DayKey]models.DayLog)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}

		var log models.DayLog
		if err := dec.Decode(&log); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		k := daykey.DayKey(name)
		if _, seen := logs[k]; !seen {
			order = append(order, k)
		}
		logs[k] = log
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	// anything after the closing brace means the document is damaged
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, fmt.Errorf("unexpected data after object")
	}
	return order, logs, nil
}
