package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
)

var defaultSensitiveFields = [...]string{
	"api_key",
	"apiKey",
	"apikey",
	"access_token",
	"accessToken",
	"access_key",
	"accessKey",
	"secret_key",
	"secretKey",
	"secret",
	"password",
	"passwd",
	"pwd",
	"token",
	"appid",
	"app_id",
	"group_id",
	"groupId",
}

// SensitiveFieldSet is an immutable set of top-level document keys whose values
// are blanked when a configuration is copied to another user.
type SensitiveFieldSet struct {
	fields map[string]struct{}
}

// DefaultSensitiveFields returns a fresh copy of the built in deny-list.
func DefaultSensitiveFields() []string {
	fields := make([]string, len(defaultSensitiveFields))
	copy(fields, defaultSensitiveFields[:])
	return fields
}

// NewSensitiveFieldSet builds a set from the defaults plus extra. Matching is
// exact and case sensitive; blank entries are ignored.
func NewSensitiveFieldSet(extra ...string) SensitiveFieldSet {
	fields := make(map[string]struct{}, len(defaultSensitiveFields)+len(extra))
	for _, field := range defaultSensitiveFields {
		fields[field] = struct{}{}
	}
	for _, field := range extra {
		if field = strings.TrimSpace(field); field != "" {
			fields[field] = struct{}{}
		}
	}
	return SensitiveFieldSet{fields: fields}
}

func (s SensitiveFieldSet) Contains(field string) bool {
	_, ok := s.fields[field]
	return ok
}

func (s SensitiveFieldSet) Len() int {
	return len(s.fields)
}

type ScrubberService struct {
	fields SensitiveFieldSet
	log    logger.Logger
}

func NewScrubberService(fields SensitiveFieldSet) *ScrubberService {
	return &ScrubberService{
		fields: fields,
		log:    logger.New("scrubberService"),
	}
}

// Scrub returns a deep copy of document with every sensitive top-level value
// replaced by "". Nested objects are copied untouched. The input is never
// modified; if the document cannot be copied an empty map is returned.
func (s *ScrubberService) Scrub(document map[string]any) map[string]any {
	if len(document) == 0 {
		return map[string]any{}
	}

	scrubbed, err := s.scrub(document)
	if err != nil {
		s.log.Function("Scrub").Warn("failed to scrub document, using empty document", "error", err)
		return map[string]any{}
	}

	return scrubbed
}

func (s *ScrubberService) scrub(document map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic while copying document: %v", r)
		}
	}()

	copied, err := deepCopyDocument(document)
	if err != nil {
		return nil, err
	}

	for key := range copied {
		if s.fields.Contains(key) {
			copied[key] = ""
		}
	}

	return copied, nil
}

// deepCopyDocument copies maps and slices structurally so scalar values keep
// their exact type and precision. The JSON encoding check rejects values a
// config column cannot hold.
func deepCopyDocument(document map[string]any) (map[string]any, error) {
	if _, err := json.Marshal(document); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	copied, err := copyValue(document)
	if err != nil {
		return nil, err
	}
	return copied.(map[string]any), nil
}

func copyValue(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(v))
		for key, item := range v {
			c, err := copyValue(item)
			if err != nil {
				return nil, err
			}
			copied[key] = c
		}
		return copied, nil
	case []any:
		copied := make([]any, len(v))
		for i, item := range v {
			c, err := copyValue(item)
			if err != nil {
				return nil, err
			}
			copied[i] = c
		}
		return copied, nil
	case nil, string, bool, json.Number,
		float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	default:
		return roundTrip(v)
	}
}

// roundTrip copies any other JSON encodable value (typed maps, slices, structs)
// through its encoding, keeping numbers as json.Number.
func roundTrip(value any) (any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document value: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()

	var copied any
	if err := decoder.Decode(&copied); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document value: %w", err)
	}
	return copied, nil
}
