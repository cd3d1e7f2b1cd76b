package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray handles JSONB string arrays.
type StringArray []string

// Scan implements the Scanner interface for StringArray.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		if s, ok := src.(string); ok {
			source = []byte(s)
		} else {
			return errors.New("type assertion .([]byte) failed")
		}
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scores holds a candidate's assessment scores as a JSONB column.
type Scores struct {
	Overall       float64 `json:"overall"`
	Technical     float64 `json:"technical"`
	Soft          float64 `json:"soft"`
	Leadership    float64 `json:"leadership"`
	Communication float64 `json:"communication"`
}

// Scan implements the Scanner interface for Scores.
func (s *Scores) Scan(src interface{}) error {
	return scanJSONB(src, s)
}

// Value implements the Valuer interface for Scores.
func (s Scores) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// SkillWeights holds per-dimension weights used to compute the overall score.
type SkillWeights struct {
	Technical     float64 `json:"technical"`
	Soft          float64 `json:"soft"`
	Leadership    float64 `json:"leadership"`
	Communication float64 `json:"communication"`
}

// DefaultSkillWeights returns the weight split used when a posting does not
// configure its own.
func DefaultSkillWeights() SkillWeights {
	return SkillWeights{
		Technical:     0.4,
		Soft:          0.3,
		Leadership:    0.15,
		Communication: 0.15,
	}
}

// Scan implements the Scanner interface for SkillWeights.
func (w *SkillWeights) Scan(src interface{}) error {
	return scanJSONB(src, w)
}

// Value implements the Valuer interface for SkillWeights.
func (w SkillWeights) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Feedback holds assessment feedback for a candidate, populated at review
// time and on terminal transitions.
type Feedback struct {
	Strengths         []string `json:"strengths,omitempty"`
	Weaknesses        []string `json:"weaknesses,omitempty"`
	Recommendations   []string `json:"recommendations,omitempty"`
	OverallAssessment string   `json:"overall_assessment,omitempty"`
	RejectionReason   string   `json:"rejection_reason,omitempty"`
	InterviewDetails  string   `json:"interview_details,omitempty"`
}

// Scan implements the Scanner interface for Feedback.
func (f *Feedback) Scan(src interface{}) error {
	return scanJSONB(src, f)
}

// Value implements the Valuer interface for Feedback.
func (f Feedback) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Analysis holds the terminal analysis of an interview conversation.
type Analysis struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Scan implements the Scanner interface for Analysis.
func (a *Analysis) Scan(src interface{}) error {
	return scanJSONB(src, a)
}

// Value implements the Valuer interface for Analysis.
func (a Analysis) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// scanJSONB unmarshals a JSONB column into dest, tolerating both []byte and
// string driver representations.
func scanJSONB(src interface{}, dest interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported JSONB source type")
	}
}
