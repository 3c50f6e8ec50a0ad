// Package dataset loads word lists to cluster.
//
// A word is a space-separated IPA transcription with an optional language
// code. Two formats are supported, chosen by file extension:
//
//	# words.yaml
//	- ipa: k a t
//	  language: en
//	- ipa: k a t s ə
//	  language: de
//
//	# words.tsv: ipa, then an optional language column
//	k a t	en
//	k a t s ə	de
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// Word is one entry of a dataset.
type Word struct {
	IPA      string `yaml:"ipa" json:"ipa"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
}

// Segments splits the transcription on whitespace.
func (w Word) Segments() []string {
	return strings.Fields(w.IPA)
}

// Lang returns the language code, or the wildcard if none is set.
func (w Word) Lang() string {
	if w.Language == "" {
		return ir.Wildcard
	}
	return w.Language
}

// ErrEmptyTranscription is returned for words without segments.
var ErrEmptyTranscription = errors.New("empty transcription")

// Load reads a dataset from path. The format follows the extension:
// .yaml and .yml are YAML, .tsv and .txt are tab-separated.
func Load(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".tsv", ".txt":
		return ParseTSV(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .yaml, .yml, .tsv or .txt)", ext)
	}
}

// ParseYAML reads a YAML sequence of words.
func ParseYAML(r io.Reader) ([]Word, error) {
	var words []Word
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&words); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML dataset: %w", err)
	}

	for i, w := range words {
		if len(w.Segments()) == 0 {
			return nil, fmt.Errorf("word %d: %w", i+1, ErrEmptyTranscription)
		}
	}
	return words, nil
}

// ParseTSV reads tab-separated records of ipa and an optional language.
// Lines starting with "--" are comments; blank lines are skipped.
func ParseTSV(r io.Reader) ([]Word, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var words []Word
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse TSV dataset: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if strings.HasPrefix(strings.TrimSpace(record[0]), "--") {
			continue
		}
		if len(record) > 2 {
			return nil, fmt.Errorf("line %d: expected at most 2 fields, got %d", line, len(record))
		}

		w := Word{IPA: strings.TrimSpace(record[0])}
		if len(record) == 2 {
			w.Language = strings.TrimSpace(record[1])
		}
		if len(w.Segments()) == 0 {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyTranscription)
		}
		words = append(words, w)
	}
}
