package utils

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ParseNftMetadata turns a CLI metadata argument into override entries for
// the export step. A value starting with "@" names a JSON file; anything
// else is inline JSON. The top-level value must be an object.
func ParseNftMetadata(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	payload := []byte(raw)
	if strings.HasPrefix(raw, "@") {
		content, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, errors.Wrap(err, "reading nft metadata file")
		}
		payload = content
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(payload, &metadata); err != nil {
		return nil, errors.Wrap(err, "nft metadata must be a JSON object")
	}
	return metadata, nil
}
