package fiber

type CampaignConsentsResponse struct {
	CampaignKey string `json:"campaign_key"`
	Count       int64  `json:"count"`
}

type ConsentReportResponse struct {
	Total     int64                      `json:"total"`
	Campaigns []CampaignConsentsResponse `json:"campaigns"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"internal_server_error"`
	Message string `json:"message,omitempty"`
}
