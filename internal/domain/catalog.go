package domain

import (
	"time"

	"github.com/google/uuid"
)

// SignCategory groups signs by regulatory role.
type SignCategory string

const (
	SignCategoryMandatory   SignCategory = "mandatory"
	SignCategoryWarning     SignCategory = "warning"
	SignCategoryInformatory SignCategory = "informatory"
	SignCategoryProhibition SignCategory = "prohibition"
)

func (c SignCategory) IsValid() bool {
	switch c {
	case SignCategoryMandatory, SignCategoryWarning, SignCategoryInformatory, SignCategoryProhibition:
		return true
	}
	return false
}

// TrafficSign is immutable reference data.
type TrafficSign struct {
	ID              string       `json:"id"`
	NameEnglish     string       `json:"nameEnglish"`
	NameHindi       string       `json:"nameHindi"`
	Meaning         string       `json:"meaning"`
	HindiMeaning    string       `json:"hindiMeaning"`
	Explanation     string       `json:"explanation"`
	RealLifeExample string       `json:"realLifeExample"`
	Color           string       `json:"color"`
	Shape           string       `json:"shape"`
	Category        SignCategory `json:"category"`
	VideoURL        *string      `json:"videoUrl,omitempty"`
	IconURLs        []string     `json:"iconUrls"`
	SortOrder       int          `json:"sortOrder"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Answer is one of the two option slots of a QuizQuestion.
type Answer string

const (
	AnswerA Answer = "A"
	AnswerB Answer = "B"
)

func (a Answer) IsValid() bool {
	return a == AnswerA || a == AnswerB
}

// MediaType of an optional question attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) IsValid() bool {
	return m == MediaImage || m == MediaVideo
}

// QuizQuestion is a two-choice practice test question.
type QuizQuestion struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    *uuid.UUID `json:"categoryId,omitempty"`
	Prompt        string     `json:"question"`
	OptionA       string     `json:"optionA"`
	OptionB       string     `json:"optionB"`
	CorrectAnswer Answer     `json:"-"`
	Explanation   *string    `json:"explanation,omitempty"`
	MediaType     *MediaType `json:"mediaType,omitempty"`
	MediaURL      *string    `json:"mediaUrl,omitempty"`
	CreatedAt     time.Time  `json:"-"`
}

// Category scopes a subset of questions.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
