// Package credentials converts service-account keys between the JSON form
// issued by the cloud console and the TOML secrets file read by the browser.
package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/videogen/outputs-preview/internal/constants"
)

var (
	// ErrDestinationExists is returned by Wrap when the destination file is
	// already present and overwriting was not requested.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrMissingServiceAccount is returned when a secrets file has no
	// gcp_service_account table.
	ErrMissingServiceAccount = errors.New("secrets file has no [" + constants.ServiceAccountKey + "] table")
)

// Document is an opaque credential document.
type Document map[string]any

// ReadJSON reads a JSON credential document from path.
func ReadJSON(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode credential file %s: %w", path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode credential file %s: trailing data after document", path)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode credential file %s: document is not an object", path)
	}
	return doc, nil
}

// Wrap reads the JSON credential document at src and writes it to dst as a
// TOML file with a single [gcp_service_account] table holding the whole document.
func Wrap(src, dst string, overwrite bool) error {
	doc, err := ReadJSON(src)
	if err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data)
}

// Encode renders doc nested under the gcp_service_account key as TOML.
// TOML has no null, so null members are dropped. Integral JSON numbers stay
// integers.
func Encode(doc Document) ([]byte, error) {
	wrapped := map[string]any{
		constants.ServiceAccountKey: tomlTable(map[string]any(doc)),
	}
	data, err := toml.Marshal(wrapped)
	if err != nil {
		return nil, fmt.Errorf("encode secrets: %w", err)
	}
	return data, nil
}

// LoadServiceAccount reads a secrets file written by Wrap and returns the
// service-account document re-encoded as JSON, the form the Google auth
// library consumes.
func LoadServiceAccount(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}

	var secrets map[string]any
	if err := toml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("decode secrets file %s: %w", path, err)
	}

	svc, ok := secrets[constants.ServiceAccountKey].(map[string]any)
	if !ok || len(svc) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingServiceAccount, path)
	}

	out, err := json.Marshal(svc)
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}
	return out, nil
}

func tomlTable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if tv, ok := tomlValue(v); ok {
			out[k] = tv
		}
	}
	return out
}

// tomlValue converts a decoded JSON value for TOML. ok is false for null.
func tomlValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		if f, err := val.Float64(); err == nil {
			return f, true
		}
		return val.String(), true
	case map[string]any:
		return tomlTable(val), true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if tv, ok := tomlValue(item); ok {
				out = append(out, tv)
			}
		}
		return out, true
	default:
		return v, true
	}
}

// writeFileAtomic writes data to path via a temp file and rename.
// The file holds a private key, so it is created 0600 in a 0700 directory.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write secrets: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename secrets: %w", err)
	}
	return nil
}
