package fiber

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"optin-webhook-service/internal/consents/core/domain"
)

type GetConsentReportUseCase interface {
	Execute(ctx context.Context) (*domain.ConsentReport, error)
}

type ConsentsHandler struct {
	uc GetConsentReportUseCase
}

func NewConsentsHandler(uc GetConsentReportUseCase) *ConsentsHandler {
	return &ConsentsHandler{uc: uc}
}

// GetConsentReport godoc
// @Summary Consent counts per campaign
// @Description Read-only view over the consent ledger
// @Tags Consents
// @Produce json
// @Success 200 {object} ConsentReportResponse
// @Failure 500 {object} ErrorResponse
// @Router /consents [get]
func (h *ConsentsHandler) GetConsentReport(c *fiber.Ctx) error {
	report, err := h.uc.Execute(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("consent report failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := ConsentReportResponse{
		Total:     report.Total,
		Campaigns: make([]CampaignConsentsResponse, 0, len(report.Campaigns)),
	}

	for _, cc := range report.Campaigns {
		resp.Campaigns = append(resp.Campaigns, CampaignConsentsResponse{
			CampaignKey: cc.CampaignKey,
			Count:       cc.Count,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}
