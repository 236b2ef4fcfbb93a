package jobs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ExcludedPostings struct {
	Items []*ExcludedPosting
}

type ExcludedPosting struct {
	ID         string
	URL        string
	Company    string
	ExcludedAt time.Time
}

// LoadFromFile reads postings from a JSON or YAML file. Both a bare list and
// an object with an "items" key are accepted. Postings without an ID get one derived
// from their content; duplicate IDs are an error.
func LoadFromFile(path string) (*Postings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	postings, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decoding postings from %s: %w", path, err)
	}
	return postings, nil
}

// Decode parses postings. ext selects the format; anything but ".json" is read as YAML,
// which also covers JSON input.
func Decode(data []byte, ext string) (*Postings, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return &Postings{}, nil
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(ext, ".json") {
		unmarshal = json.Unmarshal
	}

	postings := &Postings{}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "-") {
		if err := unmarshal(data, &postings.Items); err != nil {
			return nil, err
		}
	} else if err := unmarshal(data, postings); err != nil {
		return nil, err
	}

	if err := postings.assignIDs(); err != nil {
		return nil, err
	}
	return postings, nil
}

// assignIDs gives every posting without an ID one derived from its content, so the ID stays
// the same across runs and can be stored in the exclude file. IDs must be unique.
func (v *Postings) assignIDs() error {
	kept := v.Items[:0]
	seen := make(map[string]int, len(v.Items))
	for idx, posting := range v.Items {
		if posting == nil {
			continue
		}
		posting.ID = strings.TrimSpace(posting.ID)
		if posting.ID == "" {
			posting.ID = posting.contentID()
		}
		if first, ok := seen[posting.ID]; ok {
			return fmt.Errorf("postings %d and %d share the id %q", first+1, idx+1, posting.ID)
		}
		seen[posting.ID] = idx
		kept = append(kept, posting)
	}
	v.Items = kept
	return nil
}

func (p *Posting) contentID() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{p.URL, p.Title, p.Company, p.Location, p.Description}, "\x00")))
	return "sha-" + hex.EncodeToString(sum[:6])
}

// DumpToTmpFile writes any value as indented JSON into a new temp file.
func DumpToTmpFile(pattern string, value any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (v *Postings) ToExcluded() *ExcludedPostings {
	excluded := &ExcludedPostings{}
	for _, posting := range v.Items {
		excluded.Items = append(excluded.Items, &ExcludedPosting{
			ID:         posting.ID,
			URL:        posting.URL,
			Company:    posting.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedPostingsFromFile reads an exclude file. A missing or empty file yields an empty list.
func GetExcludedPostingsFromFile(path string) (*ExcludedPostings, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ExcludedPostings{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPostings{}, nil
	}

	var excluded ExcludedPostings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (v *ExcludedPostings) Append(s *ExcludedPostings) {
	v.Items = append(v.Items, s.Items...)
}

func (v *ExcludedPostings) PostingIDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, posting := range v.Items {
		if id := strings.TrimSpace(posting.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (v *ExcludedPostings) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
