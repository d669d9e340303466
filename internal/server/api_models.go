package server

// auditRequest is the body of POST /api/v1/audits.
type auditRequest struct {
	Target string `json:"target"`
}

// probeRequest is the body of POST /api/v1/probes.
type probeRequest struct {
	Target   string `json:"target"`
	Industry string `json:"industry,omitempty"`
}

// fixRequest is the body of POST /api/v1/fixes. When neither LlmsTxt nor
// Schema is set every artifact is generated.
type fixRequest struct {
	Target     string `json:"target"`
	LlmsTxt    bool   `json:"llms_txt,omitempty"`
	Schema     bool   `json:"schema,omitempty"`
	SchemaType string `json:"schema_type,omitempty"`
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}
