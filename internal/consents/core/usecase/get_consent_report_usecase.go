package usecase

import (
	"context"
	"sort"

	"optin-webhook-service/internal/consents/core/domain"
	"optin-webhook-service/internal/consents/core/ports"
)

type GetConsentReportUseCase struct {
	reader ports.ConsentReaderPort
}

func NewGetConsentReportUseCase(reader ports.ConsentReaderPort) *GetConsentReportUseCase {
	return &GetConsentReportUseCase{reader: reader}
}

// Execute aggregates consent counts per campaign, sorted by campaign key
// for stable output.
func (uc *GetConsentReportUseCase) Execute(ctx context.Context) (*domain.ConsentReport, error) {
	counts, err := uc.reader.CountByCampaign(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := &domain.ConsentReport{
		Campaigns: make([]domain.CampaignConsents, 0, len(keys)),
	}

	for _, k := range keys {
		report.Campaigns = append(report.Campaigns, domain.CampaignConsents{
			CampaignKey: k,
			Count:       counts[k],
		})
		report.Total += counts[k]
	}

	return report, nil
}
