package model

// DetectionRequest carries one uploaded media asset from the HTTP boundary to
// the orchestrators. Created once per request and consumed once; nothing is
// retained after the response is written.
type DetectionRequest struct {
	Data        []byte
	Filename    string
	ContentType string
}
