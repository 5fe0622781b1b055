package domain

import "time"

// ConsentRecord marks that the downstream job for (SubjectID, CampaignKey)
// has been triggered. Created at most once per pair, never updated or
// deleted afterwards. Only the consent ledger mutates these.
type ConsentRecord struct {
	SubjectID   string
	CampaignKey string
	TriggeredAt time.Time
}

// TriggerRequest describes one downstream job invocation. Not persisted.
type TriggerRequest struct {
	CampaignKey string
	SubjectID   string
}
