package season

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml data/reference.schema.json
var referenceFS embed.FS

const (
	referencePath = "data/reference.yaml"
	schemaPath    = "data/reference.schema.json"
)

// ErrInvalidReference is returned when reference data fails schema validation
// or semantic checks.
var ErrInvalidReference = errors.New("invalid calendar reference")

// Reference is the immutable calendar configuration: anchor year, periods
// and holidays.
type Reference struct {
	AnchorYear int       `json:"anchorYear" yaml:"anchor_year"`
	Periods    []Period  `json:"periods"    yaml:"periods"`
	Holidays   []Holiday `json:"holidays"   yaml:"holidays"`
}

var (
	defaultRefOnce sync.Once
	defaultRef     *Reference
)

// DefaultReference returns the embedded reference data. It panics if the
// embedded file is invalid, which is a build defect.
func DefaultReference() *Reference {
	defaultRefOnce.Do(func() {
		data, err := referenceFS.ReadFile(referencePath)
		if err != nil {
			panic(fmt.Sprintf("read embedded reference: %v", err))
		}

		ref, err := ParseReference(data)
		if err != nil {
			panic(fmt.Sprintf("parse embedded reference: %v", err))
		}

		defaultRef = ref
	})

	return defaultRef
}

// LoadReferenceFile reads and validates a reference override file.
func LoadReferenceFile(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}

	ref, err := ParseReference(data)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}

	return ref, nil
}

// ParseReference validates YAML reference data against the embedded JSON
// schema and decodes it.
func ParseReference(data []byte) (*Reference, error) {
	validateErr := validateSchema(data)
	if validateErr != nil {
		return nil, validateErr
	}

	var ref Reference

	dec := yaml.NewDecoder(bytes.NewReader(data))

	decodeErr := dec.Decode(&ref)
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReference, decodeErr)
	}

	checkErr := ref.check()
	if checkErr != nil {
		return nil, checkErr
	}

	return &ref, nil
}

func validateSchema(data []byte) error {
	var doc any

	unmarshalErr := yaml.Unmarshal(data, &doc)
	if unmarshalErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReference, unmarshalErr)
	}

	schemaBytes, err := referenceFS.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidReference, strings.Join(msgs, "; "))
}

// check enforces what the schema cannot express: boundary order and unique ids.
func (r *Reference) check() error {
	seen := make(map[PeriodID]bool, len(r.Periods))

	for _, p := range r.Periods {
		if seen[p.Value] {
			return fmt.Errorf("%w: duplicate period %q", ErrInvalidReference, p.Value)
		}

		seen[p.Value] = true

		for _, s := range Seasons {
			if p.End[s].ISODate.Before(p.Start[s].ISODate) {
				return fmt.Errorf("%w: period %q ends before it starts in %s season",
					ErrInvalidReference, p.Value, s)
			}
		}
	}

	if !seen[PeriodAll] {
		return fmt.Errorf("%w: period %q is required", ErrInvalidReference, PeriodAll)
	}

	return nil
}
