package document

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema/document.schema.json
var documentSchema string

const schemaURL = "document.schema.json"

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		schemaCompiled, schemaErr = compiler.Compile(schemaURL)
	})
	return schemaCompiled, schemaErr
}

// LoadCorpus reads annotated documents from a JSON array file or, when the
// extension is .jsonl, from one JSON object per line.
func LoadCorpus(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return ParseLines(raw)
	}
	return ParseArray(raw)
}

// ParseArray decodes a JSON array of documents.
func ParseArray(raw []byte) ([]Document, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	docs := make([]Document, 0, len(items))
	for i, item := range items {
		d, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// ParseLines decodes one document per non-blank line.
func ParseLines(raw []byte) ([]Document, error) {
	var docs []Document
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		d, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, d)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Parse validates one JSON document against the embedded schema, decodes
// it, NFC-normalises its text and checks token alignment.
func Parse(raw []byte) (Document, error) {
	sch, err := compiledSchema()
	if err != nil {
		return Document{}, fmt.Errorf("failed to compile document schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := sch.Validate(v); err != nil {
		return Document{}, fmt.Errorf("%w: schema validation: %v", ErrInvalidDocument, err)
	}

	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	d.normalize()

	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (d *Document) normalize() {
	d.Text = norm.NFC.String(d.Text)
	for i := range d.Tokens {
		d.Tokens[i].Text = norm.NFC.String(d.Tokens[i].Text)
	}
	for i := range d.Entities {
		d.Entities[i].Text = norm.NFC.String(d.Entities[i].Text)
	}
}
