package postgres

import "encoding/json"

// jsonArg encodes v for a ::jsonb parameter.
func jsonArg(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON leaves dst untouched for NULL or empty columns.
func decodeJSON(raw []byte, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
