package seeder

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

//go:embed data/catalogue.json
var defaultCatalogue []byte

//go:embed data/catalogue.schema.json
var catalogueSchema []byte

const schemaURL = "catalogue.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Catalogue is a validated import file converted to domain types.
type Catalogue struct {
	Categories []domain.Category
	Signs      []domain.TrafficSign
	Questions  []domain.QuizQuestion
}

type catalogueFile struct {
	Version    int            `json:"version"`
	Categories []categoryJSON `json:"categories"`
	Signs      []signJSON     `json:"signs"`
	Questions  []questionJSON `json:"questions"`
}

type categoryJSON struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type signJSON struct {
	ID              string   `json:"id"`
	NameEnglish     string   `json:"nameEnglish"`
	NameHindi       string   `json:"nameHindi"`
	Category        string   `json:"category"`
	Meaning         string   `json:"meaning"`
	HindiMeaning    string   `json:"hindiMeaning"`
	Explanation     string   `json:"explanation"`
	RealLifeExample string   `json:"realLifeExample"`
	Color           string   `json:"color"`
	Shape           string   `json:"shape"`
	VideoURL        *string  `json:"videoUrl"`
	IconURLs        []string `json:"iconUrls"`
	SortOrder       int      `json:"sortOrder"`
}

type questionJSON struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	Question      string     `json:"question"`
	OptionA       string     `json:"optionA"`
	OptionB       string     `json:"optionB"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   *string    `json:"explanation"`
	MediaType     *string    `json:"mediaType"`
	MediaURL      *string    `json:"mediaUrl"`
}

// DefaultCatalogue returns the embedded Indian road-sign catalogue.
func DefaultCatalogue() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// LoadFile reads and parses the catalogue at path. An empty path selects the
// embedded default.
func LoadFile(path string) (*Catalogue, error) {
	if path == "" {
		return DefaultCatalogue()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse validates raw against the catalogue schema, then checks references
// the schema cannot express: unique ids and known question categories.
func Parse(raw []byte) (*Catalogue, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.NewValidationError("catalogue", "invalid JSON: "+err.Error())
	}

	schema, err := catalogueSchemaCompiled()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, domain.NewValidationError("catalogue", err.Error())
	}

	var f catalogueFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, domain.NewValidationError("catalogue", "decode: "+err.Error())
	}
	return f.toDomain()
}

func catalogueSchemaCompiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogueSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse catalogue schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add catalogue schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func (f catalogueFile) toDomain() (*Catalogue, error) {
	var errs []domain.FieldError

	cat := &Catalogue{
		Categories: make([]domain.Category, 0, len(f.Categories)),
		Signs:      make([]domain.TrafficSign, 0, len(f.Signs)),
		Questions:  make([]domain.QuizQuestion, 0, len(f.Questions)),
	}

	categories := make(map[uuid.UUID]bool, len(f.Categories))
	for i, c := range f.Categories {
		if categories[c.ID] {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("categories[%d].id", i), Message: "duplicate id"})
			continue
		}
		categories[c.ID] = true
		cat.Categories = append(cat.Categories, domain.Category{ID: c.ID, Name: c.Name})
	}

	signs := make(map[string]bool, len(f.Signs))
	for i, s := range f.Signs {
		if signs[s.ID] {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("signs[%d].id", i), Message: "duplicate id"})
			continue
		}
		signs[s.ID] = true
		cat.Signs = append(cat.Signs, domain.TrafficSign{
			ID:              s.ID,
			NameEnglish:     s.NameEnglish,
			NameHindi:       s.NameHindi,
			Meaning:         s.Meaning,
			HindiMeaning:    s.HindiMeaning,
			Explanation:     s.Explanation,
			RealLifeExample: s.RealLifeExample,
			Color:           s.Color,
			Shape:           s.Shape,
			Category:        domain.SignCategory(s.Category),
			VideoURL:        s.VideoURL,
			IconURLs:        s.IconURLs,
			SortOrder:       s.SortOrder,
		})
	}

	questions := make(map[uuid.UUID]bool, len(f.Questions))
	for i, q := range f.Questions {
		switch {
		case questions[q.ID]:
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("questions[%d].id", i), Message: "duplicate id"})
			continue
		case q.CategoryID != nil && !categories[*q.CategoryID]:
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("questions[%d].categoryId", i), Message: "unknown category"})
			continue
		}
		questions[q.ID] = true

		var media *domain.MediaType
		if q.MediaType != nil {
			m := domain.MediaType(*q.MediaType)
			media = &m
		}
		cat.Questions = append(cat.Questions, domain.QuizQuestion{
			ID:            q.ID,
			CategoryID:    q.CategoryID,
			Prompt:        q.Question,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			CorrectAnswer: domain.Answer(q.CorrectAnswer),
			Explanation:   q.Explanation,
			MediaType:     media,
			MediaURL:      q.MediaURL,
		})
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return cat, nil
}
