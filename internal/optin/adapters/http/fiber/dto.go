package fiber

// WebhookResponse summarizes how one delivery was handled.
// @Description Webhook processing outcome DTO
type WebhookResponse struct {
	Status         string `json:"status" example:"processed"`
	Dispatched     int    `json:"dispatched,omitempty"`
	Duplicates     int    `json:"duplicates,omitempty"`
	DispatchErrors int    `json:"dispatch_errors,omitempty"`
	Observed       int    `json:"observed,omitempty"`
	Ignored        int    `json:"ignored,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"internal_server_error"`
	Message string `json:"message,omitempty"`
}
