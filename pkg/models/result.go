package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Category identifies one of the fixed brand safety dimensions.
type Category string

const (
	CategoryAdultContent                  Category = "adultContent"
	CategoryDrugsContent                  Category = "drugsContent"
	CategoryAlcoholContent                Category = "alcoholContent"
	CategoryHateSpeech                    Category = "hateSpeech"
	CategoryArmsAndAmmunition             Category = "armsAndAmmunition"
	CategoryDeathInjuryOrMilitaryConflict Category = "deathInjuryOrMilitaryConflict"
	CategoryTerrorism                     Category = "terrorism"
	CategoryObscenityAndProfanity         Category = "obscenityAndProfanity"
)

// Categories lists every brand safety category in wire order.
// All categories must carry a complete rating tuple for a result to be valid.
var Categories = []Category{
	CategoryAdultContent,
	CategoryDrugsContent,
	CategoryAlcoholContent,
	CategoryHateSpeech,
	CategoryArmsAndAmmunition,
	CategoryDeathInjuryOrMilitaryConflict,
	CategoryTerrorism,
	CategoryObscenityAndProfanity,
}

// Rating is the coarse severity bucket assigned per category.
type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// CategoryRating holds the model's assessment for a single category.
// Confidence is kept as the wire-format string percentage (e.g. "67%").
type CategoryRating struct {
	Category    Category `json:"category"`
	Rating      Rating   `json:"rating"`
	Confidence  string   `json:"confidence"`
	Explanation string   `json:"explanation"`
}

// ProcessingTime aggregates stage timings in seconds, rounded to two decimals.
// The classifier fills the first four fields; the classification service adds
// the remaining three on top. A phase that rounds to zero still serializes as
// 0; only phases that never ran are absent. EncodeSeconds is nil on the URL
// path (nothing is encoded), and the service fields are nil until the service
// merges its own timings in, which happens after the result file is written.
type ProcessingTime struct {
	TotalSeconds           float64  `json:"total_seconds"`
	APISeconds             float64  `json:"api_seconds"`
	EncodeSeconds          *float64 `json:"encode_seconds,omitempty"`
	ProcessSeconds         float64  `json:"process_seconds"`
	ServiceTotalSeconds    *float64 `json:"service_total_seconds,omitempty"`
	ImageProcessingSeconds *float64 `json:"image_processing_seconds,omitempty"`
	SaveResultsSeconds     *float64 `json:"save_results_seconds,omitempty"`
}

// RoundSeconds converts a duration to seconds rounded to two decimals, the
// precision carried by every ProcessingTime field.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// Result is the single outcome shape for a classification request. It is one of:
//   - a full result: all eight categories rated, plus image path and timings
//   - a degraded result: the model replied but its output was not parseable
//     (Err and RawResponse set, categories empty)
//   - an error result: the pipeline failed (only Err set)
//
// Internally categories are a tagged fixed set; the flat wire shape
// ("adultContentRating", "adultContentRating_confidence_score", ...) only
// exists at the JSON boundary.
type Result struct {
	ImagePath      string
	Categories     []CategoryRating
	ProcessingTime *ProcessingTime
	Err            string
	RawResponse    string
}

// NewErrorResult builds the uniform pipeline failure shape {"error": message}.
func NewErrorResult(message string) *Result {
	return &Result{Err: message}
}

// NewDegradedResult builds the shape returned when the model response could
// not be parsed. The original model text is preserved exactly.
func NewDegradedResult(imagePath, rawResponse string) *Result {
	return &Result{
		ImagePath:   imagePath,
		Err:         "Failed to parse model response",
		RawResponse: rawResponse,
	}
}

// IsError reports whether the result represents a pipeline failure.
func (r *Result) IsError() bool {
	return r.Err != "" && r.RawResponse == ""
}

// IsDegraded reports whether the model responded with unparseable output.
func (r *Result) IsDegraded() bool {
	return r.Err != "" && r.RawResponse != ""
}

// Lookup returns the rating tuple for a category, if present.
func (r *Result) Lookup(category Category) (CategoryRating, bool) {
	for _, cr := range r.Categories {
		if cr.Category == category {
			return cr, true
		}
	}
	return CategoryRating{}, false
}

func ratingKey(c Category) string      { return string(c) + "Rating" }
func confidenceKey(c Category) string  { return string(c) + "Rating_confidence_score" }
func explanationKey(c Category) string { return string(c) + "Rating_explanation" }

// MarshalJSON serializes the result into its flat external shape. Image path
// and timings are kept whenever they are set, including on error shapes; a
// plain pipeline failure has neither, so it still serializes as {"error": msg}.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{})
	if r.ImagePath != "" {
		out["image_path"] = r.ImagePath
	}
	if r.ProcessingTime != nil {
		out["processing_time"] = r.ProcessingTime
	}
	if r.Err != "" {
		out["error"] = r.Err
		if r.RawResponse != "" {
			out["raw_response"] = r.RawResponse
		}
		return json.Marshal(out)
	}

	for _, cr := range r.Categories {
		out[ratingKey(cr.Category)] = string(cr.Rating)
		out[confidenceKey(cr.Category)] = cr.Confidence
		out[explanationKey(cr.Category)] = cr.Explanation
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a Result from the flat external shape. A payload with
// category keys must carry the complete rating/confidence/explanation tuple
// for every category; anything less is rejected so callers degrade instead of
// returning a partially populated result.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Result{}

	if msg, ok := raw["error"]; ok {
		if err := json.Unmarshal(msg, &r.Err); err != nil {
			return fmt.Errorf("error field: %w", err)
		}
	}
	if msg, ok := raw["image_path"]; ok {
		if err := json.Unmarshal(msg, &r.ImagePath); err != nil {
			return fmt.Errorf("image_path field: %w", err)
		}
	}
	if msg, ok := raw["raw_response"]; ok {
		if err := json.Unmarshal(msg, &r.RawResponse); err != nil {
			return fmt.Errorf("raw_response field: %w", err)
		}
	}
	if msg, ok := raw["processing_time"]; ok {
		r.ProcessingTime = &ProcessingTime{}
		if err := json.Unmarshal(msg, r.ProcessingTime); err != nil {
			return fmt.Errorf("processing_time field: %w", err)
		}
	}
	if r.Err != "" {
		return nil
	}

	r.Categories = make([]CategoryRating, 0, len(Categories))
	for _, category := range Categories {
		cr := CategoryRating{Category: category}
		if err := unmarshalString(raw, ratingKey(category), (*string)(&cr.Rating)); err != nil {
			return err
		}
		if err := unmarshalString(raw, confidenceKey(category), &cr.Confidence); err != nil {
			return err
		}
		if err := unmarshalString(raw, explanationKey(category), &cr.Explanation); err != nil {
			return err
		}
		r.Categories = append(r.Categories, cr)
	}
	return nil
}

func unmarshalString(raw map[string]json.RawMessage, key string, dst *string) error {
	msg, ok := raw[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}
