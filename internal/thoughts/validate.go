package thoughts

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mindcare/internal/apperr"
	"github.com/starford/mindcare/internal/models"
)

// Field limits.
const (
	MaxContentLength = 2000
	MaxTags          = 20
	MaxTagLength     = 50
)

// draft is Input after normalization, ready to validate.
type draft struct {
	Content string      `json:"content"`
	Mood    models.Mood `json:"mood"`
	Tags    []string    `json:"tags"`
	hasTags bool
}

func prepare(in Input) (draft, error) {
	d := draft{
		Content: strings.TrimSpace(in.Content),
		Mood:    in.Mood,
	}
	if in.Tags != nil {
		d.Tags = cleanTags(*in.Tags)
		d.hasTags = true
	}

	moods := make([]any, len(models.Moods))
	names := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		moods[i] = m
		names[i] = string(m)
	}

	err := validation.ValidateStruct(&d,
		validation.Field(&d.Content,
			validation.Required.Error("Thought content is required"),
			validation.RuneLength(1, MaxContentLength).Error("Thought content must be between 1 and 2000 characters"),
		),
		validation.Field(&d.Mood,
			validation.In(moods...).Error("Mood must be one of: "+strings.Join(names, ", ")),
		),
		validation.Field(&d.Tags,
			validation.Length(0, MaxTags).Error("A thought can have at most 20 tags"),
			validation.Each(validation.RuneLength(1, MaxTagLength).Error("Tags must be at most 50 characters")),
		),
	)
	return d, asValidationError(err)
}

// ValidateText applies the content rules to free text and returns it trimmed.
func ValidateText(text string) (string, error) {
	d, err := prepare(Input{Content: text})
	return d.Content, err
}

// cleanTags trims every tag and drops the empty ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// asValidationError converts ozzo field errors into an *apperr.ValidationError
// with fields in name order.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ve := &apperr.ValidationError{Fields: make([]apperr.FieldError, 0, len(keys))}
	for _, k := range keys {
		ve.Fields = append(ve.Fields, apperr.FieldError{Field: k, Message: fieldMessage(errs[k])})
	}
	return ve
}

// fieldMessage flattens nested per-element errors (tags) into one message.
func fieldMessage(err error) string {
	var nested validation.Errors
	if errors.As(err, &nested) {
		for _, e := range nested {
			return e.Error()
		}
	}
	return err.Error()
}
