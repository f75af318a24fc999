// Package models defines the core data structures used throughout the application.
package models

import "encoding/json"

// ContentKind is the declared type of analyzed content.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
	KindVideo ContentKind = "video"
)

// Valid reports whether k is one of the known content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindVideo:
		return true
	}
	return false
}

// APISource records which scoring path produced a report.
type APISource string

const (
	SourceReal         APISource = "real"
	SourceMock         APISource = "mock"
	SourceMockFallback APISource = "mock-fallback"
)

// Credibility labels used by SourceRef.
const (
	CredibilityHigh   = "High"
	CredibilityMedium = "Medium"
	CredibilityLow    = "Low"
)

const (
	StatusCompleted = "completed"
	StatusSubmitted = "submitted"
)

// ExplanationItem is one line of reasoning in a credibility report.
type ExplanationItem struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
}

// SourceRef is a reference source listed alongside a report.
type SourceRef struct {
	Name        string `json:"name"`
	Credibility string `json:"credibility"`
	URL         string `json:"url"`
}

// FactCheckSummary is the fact-check block of a report.
type FactCheckSummary struct {
	Status  string   `json:"status"`
	Summary string   `json:"summary"`
	Details []string `json:"details"`
}

// Assessment is the scored part of a report, before it is stamped with
// an id, subject and timestamp.
type Assessment struct {
	Credibility int               `json:"credibility"`
	Explanation []ExplanationItem `json:"explanation"`
	Sources     []SourceRef       `json:"sources"`
	FactCheck   FactCheckSummary  `json:"factCheck"`
}

// AnalysisReport is the stored and returned result of one analysis request.
// Text reports set Content; media reports set Filename.
type AnalysisReport struct {
	ID          string            `json:"id"`
	Type        ContentKind       `json:"type"`
	Content     string            `json:"content,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	Credibility int               `json:"credibility"`
	Explanation []ExplanationItem `json:"explanation"`
	Sources     []SourceRef       `json:"sources"`
	FactCheck   FactCheckSummary  `json:"factCheck"`
	Timestamp   string            `json:"timestamp"`
	Status      string            `json:"status"`
	APISource   APISource         `json:"apiSource,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Subject returns the analyzed text or the media filename.
func (r *AnalysisReport) Subject() string {
	if r.Type == KindText {
		return r.Content
	}
	return r.Filename
}

// DeepfakeAnalysis holds the four sub-scores of a deepfake check.
type DeepfakeAnalysis struct {
	FacialConsistency   int `json:"facialConsistency"`
	AudioSync           int `json:"audioSync"`
	LightingConsistency int `json:"lightingConsistency"`
	TemporalConsistency int `json:"temporalConsistency"`
}

// DeepfakeResult is the response of the deepfake detection endpoint.
type DeepfakeResult struct {
	ID              string           `json:"id"`
	Filename        string           `json:"filename"`
	IsManipulated   bool             `json:"isManipulated"`
	Confidence      int              `json:"confidence"`
	Analysis        DeepfakeAnalysis `json:"analysis"`
	Timestamp       string           `json:"timestamp"`
	Recommendations []string         `json:"recommendations"`
	APISource       APISource        `json:"apiSource,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// UserReport is free-text feedback submitted by a user. Rating is any JSON
// value the client sent and is echoed back unchanged.
type UserReport struct {
	ID          string          `json:"id"`
	Content     string          `json:"content"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Rating      json.RawMessage `json:"rating,omitempty"`
	Timestamp   string          `json:"timestamp"`
	Status      string          `json:"status"`
}

// TextRequest is the request body of the text analysis endpoint.
type TextRequest struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}

// ReportRequest is the request body of the report submission endpoint.
type ReportRequest struct {
	Content     string          `json:"content"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Rating      json.RawMessage `json:"rating"`
}

// ReportReceipt is returned after a report is stored.
type ReportReceipt struct {
	Message  string `json:"message"`
	ReportID string `json:"reportId"`
}

// Upload is an uploaded file held fully in memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
