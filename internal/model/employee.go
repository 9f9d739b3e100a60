package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Employee is the single resource served by the API.
// Salary is kept as free text, exactly as clients send it.
type Employee struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Salary  string `json:"salary"`
}

// UnmarshalJSON also accepts a JSON number for salary and keeps its literal text,
// so {"salary":1000} and {"salary":"1000"} decode the same.
func (e *Employee) UnmarshalJSON(b []byte) error {
	type plain Employee
	aux := struct {
		*plain
		Salary json.RawMessage `json:"salary"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Salary)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return nil
	case raw[0] == '"':
		return json.Unmarshal(raw, &e.Salary)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("salary: %w", err)
		}
		e.Salary = n.String()
		return nil
	}
}
