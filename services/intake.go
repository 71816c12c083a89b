package services

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"photo-portfolio-platform/models"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxLocationName   = 100
)

// RawPhotoInput carries upload fields exactly as submitted. Tags, IsPublic
// and Location accept either their native shape or text encoding one;
// ParsePhotoInput resolves them into a single canonical form so nothing
// downstream branches on shape again.
type RawPhotoInput struct {
	Title       string
	Description string
	Category    string
	Tags        any
	IsPublic    any
	Location    any
}

// PhotoInput is the normalized metadata payload produced by validation.
type PhotoInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	IsPublic    bool
	Location    *models.PhotoLocation
}

// IntakeValidator normalizes and validates upload metadata against the
// configured category set. It is pure: identical input always yields the
// same normalized payload or the same rejection code.
type IntakeValidator struct {
	categories map[string]struct{}
}

func NewIntakeValidator(categories []string) *IntakeValidator {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &IntakeValidator{categories: set}
}

// ParsePhotoInput validates raw fields and returns the canonical payload.
// All failures are ServiceErrors with a field-level code.
func (v *IntakeValidator) ParsePhotoInput(raw RawPhotoInput) (*PhotoInput, error) {
	category := strings.ToLower(strings.TrimSpace(raw.Category))
	if _, ok := v.categories[category]; !ok {
		return nil, NewFieldError(CodeInvalidCategory, "category", "category must be one of the configured values")
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return nil, NewFieldError(CodeInvalidInput, "title", "title is required and must be at most 100 characters")
	}

	description := strings.TrimSpace(raw.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, NewFieldError(CodeInvalidInput, "description", "description must be at most 500 characters")
	}

	tags, err := parseTags(raw.Tags)
	if err != nil {
		return nil, err
	}

	isPublic, err := parseVisibility(raw.IsPublic)
	if err != nil {
		return nil, err
	}

	location, err := parseLocation(raw.Location)
	if err != nil {
		return nil, err
	}

	return &PhotoInput{
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
		IsPublic:    isPublic,
		Location:    location,
	}, nil
}

// parseTags accepts a string slice, a generic slice of strings, or JSON
// text decoding to a string slice. Order is preserved.
func parseTags(value any) ([]string, error) {
	switch t := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return normalizeTags(t), nil
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, NewFieldError(CodeInvalidTags, "tags", "tags must be a list of strings")
			}
			tags = append(tags, s)
		}
		return normalizeTags(tags), nil
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}, nil
		}
		var tags []string
		if err := json.Unmarshal([]byte(t), &tags); err != nil {
			return nil, NewFieldError(CodeInvalidTags, "tags", "tags must be a JSON array of strings")
		}
		return normalizeTags(tags), nil
	default:
		return nil, NewFieldError(CodeInvalidTags, "tags", "tags must be a list of strings")
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// parseVisibility accepts a native bool or the literals "true"/"false".
// Absent means private.
func parseVisibility(value any) (bool, error) {
	switch b := value.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		switch strings.TrimSpace(b) {
		case "", "false":
			return false, nil
		case "true":
			return true, nil
		}
		return false, NewFieldError(CodeInvalidVisibility, "isPublic", `isPublic must be "true" or "false"`)
	default:
		return false, NewFieldError(CodeInvalidVisibility, "isPublic", "isPublic must be a boolean")
	}
}

// parseLocation accepts a PhotoLocation, a map, or JSON text decoding to
// one. The location name is capped at 100 characters.
func parseLocation(value any) (*models.PhotoLocation, error) {
	var loc models.PhotoLocation

	switch l := value.(type) {
	case nil:
		return nil, nil
	case *models.PhotoLocation:
		if l == nil {
			return nil, nil
		}
		loc = *l
	case models.PhotoLocation:
		loc = l
	case map[string]any:
		encoded, err := json.Marshal(l)
		if err != nil {
			return nil, NewFieldError(CodeInvalidLocation, "location", "location has an invalid shape")
		}
		if err := json.Unmarshal(encoded, &loc); err != nil {
			return nil, NewFieldError(CodeInvalidLocation, "location", "location has an invalid shape")
		}
	case string:
		if strings.TrimSpace(l) == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(l), &loc); err != nil {
			return nil, NewFieldError(CodeInvalidLocation, "location", "location must be a JSON object")
		}
	default:
		return nil, NewFieldError(CodeInvalidLocation, "location", "location has an invalid shape")
	}

	loc.Name = strings.TrimSpace(loc.Name)
	if utf8.RuneCountInString(loc.Name) > maxLocationName {
		return nil, NewFieldError(CodeInvalidLocation, "location", "location name must be at most 100 characters")
	}
	if loc.Name == "" && loc.Lat == nil && loc.Lng == nil {
		return nil, nil
	}
	return &loc, nil
}
