package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	DocumentProfile = "profile"
	DocumentScoring = "scoring"
	DocumentRules   = "rules"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeProfile parses a YAML profile document. Unknown keys are rejected.
func DecodeProfile(data []byte) (*ProfileDocument, error) {
	var doc ProfileDocument
	if err := decodeDocument(DocumentProfile, data, &doc); err != nil {
		return nil, err
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fromValidatorError(DocumentProfile, "", err)
	}
	return &doc, nil
}

// DecodeScoring parses a YAML scoring document. Unknown keys are rejected.
func DecodeScoring(data []byte) (*ScoringDocument, error) {
	var doc ScoringDocument
	if err := decodeDocument(DocumentScoring, data, &doc); err != nil {
		return nil, err
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fromValidatorError(DocumentScoring, "", err)
	}
	return &doc, nil
}

// DecodeRules parses a YAML rules document. Individual rules are checked by Resolve,
// once their type is known.
func DecodeRules(data []byte) (*RulesDocument, error) {
	var doc RulesDocument
	if err := decodeDocument(DocumentRules, data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadProfile reads and decodes the profile document at path.
func LoadProfile(path string) (*ProfileDocument, error) {
	data, err := readDocument(DocumentProfile, path)
	if err != nil {
		return nil, err
	}
	return DecodeProfile(data)
}

// LoadScoring reads the scoring document at path. An empty path yields nil, meaning defaults.
func LoadScoring(path string) (*ScoringDocument, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := readDocument(DocumentScoring, path)
	if err != nil {
		return nil, err
	}
	return DecodeScoring(data)
}

// LoadRules reads the rules document at path. An empty path yields nil, meaning defaults.
func LoadRules(path string) (*RulesDocument, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := readDocument(DocumentRules, path)
	if err != nil {
		return nil, err
	}
	return DecodeRules(data)
}

func readDocument(document, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s config %q: %w", document, path, err)
	}
	return data, nil
}

func decodeDocument(document string, data []byte, out any) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newValidationError(document, "", "invalid YAML: %v", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return decodeStrict(document, "", raw, out)
}

// decodeStrict decodes input into out and fails on any key out does not declare.
func decodeStrict(document, field string, input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fromDecodeError(document, field, err)
	}
	return nil
}
