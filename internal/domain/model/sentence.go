package model

import (
	"time"
)

type Sentence struct {
	ID                 string    `json:"id"`
	SourceText         string    `json:"source_text"`
	MachineTranslation string    `json:"machine_translation"`
	SourceLanguage     string    `json:"source_language"`
	TargetLanguage     string    `json:"target_language"`
	Domain             *string   `json:"domain"` // e.g. medical, legal; slug-normalized
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}
