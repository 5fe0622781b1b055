package domain

type ConsentReport struct {
	Total     int64
	Campaigns []CampaignConsents
}

type CampaignConsents struct {
	CampaignKey string
	Count       int64
}
