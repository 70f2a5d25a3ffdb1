package contract

import "time"

// CaptureStatus is the lifecycle state of one captured evidence image.
// Values must exactly match the orchestrator's enum (backend-first).
type CaptureStatus string

const (
	CapturePending   CaptureStatus = "pending"
	CaptureCapturing CaptureStatus = "capturing"
	CaptureUploaded  CaptureStatus = "uploaded"
	CaptureFailed    CaptureStatus = "failed"
)

func (s CaptureStatus) Valid() bool {
	switch s {
	case CapturePending, CaptureCapturing, CaptureUploaded, CaptureFailed:
		return true
	}
	return false
}

// Terminal reports whether the capture will not transition further.
func (s CaptureStatus) Terminal() bool {
	return s == CaptureUploaded || s == CaptureFailed
}

// EvidenceCapture is one captured image belonging to a session. Image URLs
// are presigned and expire; ExpiresAt is the signing deadline when known.
type EvidenceCapture struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"session_id"`
	Status       CaptureStatus `json:"status"`
	ImageURL     string        `json:"image_url,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	CapturedAt   time.Time     `json:"captured_at"`
}

func (c *EvidenceCapture) Validate() error {
	ve := &ValidationError{Resource: "evidence_capture"}
	if c.ID == "" {
		ve.addf("id", "required")
	}
	if c.SessionID == "" {
		ve.addf("session_id", "required")
	}
	if !c.Status.Valid() {
		ve.addf("status", "unrecognized value %q", string(c.Status))
	}
	if c.Status == CaptureUploaded && c.ImageURL == "" {
		ve.addf("image_url", "required once status is uploaded")
	}
	return ve.orNil()
}

// EvidenceList is the payload of the per-session evidence endpoint.
type EvidenceList struct {
	Captures []EvidenceCapture `json:"captures"`
}

func (l *EvidenceList) Validate() error {
	ve := &ValidationError{Resource: "evidence_list"}
	for i := range l.Captures {
		if err := l.Captures[i].Validate(); err != nil {
			ve.addf("captures", "entry %d: %v", i, err)
		}
	}
	return ve.orNil()
}

// PresignedURL is a fresh signed link for a stored evidence object.
type PresignedURL struct {
	URL       string    `json:"url"`
	ObjectID  string    `json:"object_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (p *PresignedURL) Validate() error {
	ve := &ValidationError{Resource: "presigned_url"}
	if p.URL == "" {
		ve.addf("url", "required")
	}
	if p.ObjectID == "" {
		ve.addf("object_id", "required")
	}
	if p.ExpiresAt.IsZero() {
		ve.addf("expires_at", "required")
	}
	return ve.orNil()
}
