package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
)

type CampaignService struct {
	Campaigns  repository.CampaignRepositoryInterface
	Messages   repository.MessageRepositoryInterface
	Dispatcher *Dispatcher
	Logger     *zap.Logger
}

// CampaignDetails is a campaign with its message status breakdown.
type CampaignDetails struct {
	model.Campaign
	Messages        []*model.Message `json:"messages,omitempty"`
	MessagesSummary map[string]int   `json:"messages_summary"`
}

func (s *CampaignService) Create(name, messageTemplate string) (*model.Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidation("campaign name is required")
	}
	if strings.TrimSpace(messageTemplate) == "" {
		return nil, apperrors.NewValidation("message template is required")
	}

	existing, err := s.Campaigns.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidation("campaign name already exists")
	}

	campaign := &model.Campaign{
		Name:            name,
		MessageTemplate: messageTemplate,
		Status:          model.CampaignStatusDraft,
	}
	if err := s.Campaigns.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Update(id int, name, messageTemplate, status string) (*model.Campaign, error) {
	campaign, err := s.Campaigns.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		campaign.Name = name
	}
	if messageTemplate != "" {
		campaign.MessageTemplate = messageTemplate
	}
	if status != "" {
		campaign.Status = status
	}

	if err := s.Campaigns.Update(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Delete(id int) error {
	return s.Campaigns.Delete(id)
}

// List returns a page of campaigns, each with a message summary.
func (s *CampaignService) List(page, pageSize int, status string) ([]*CampaignDetails, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	campaigns, total, err := s.Campaigns.List(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	list := []*CampaignDetails{}
	for _, c := range campaigns {
		stats, err := s.Messages.StatsByCampaign(c.ID)
		if err != nil {
			return nil, nil, err
		}
		list = append(list, &CampaignDetails{Campaign: *c, MessagesSummary: stats})
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return list, pagination, nil
}

// Details returns a campaign with its full message list and summary.
func (s *CampaignService) Details(id int) (*CampaignDetails, error) {
	campaign, err := s.Campaigns.GetByID(id)
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.ListByCampaign(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.Messages.StatsByCampaign(id)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{Campaign: *campaign, Messages: messages, MessagesSummary: stats}, nil
}

/// Send runs the campaign dispatch lifecycle: draft -> sending -> completed
// when anything was sent, back to draft otherwise or when dispatch errors.
func (s *CampaignService) Send(ctx context.Context, id int, businessIDs []int, platforms []string) (*DispatchResult, error) {
	campaign, err := s.Campaigns.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.Campaigns.UpdateStatus(campaign.ID, model.CampaignStatusSending); err != nil {
		return nil, err
	}

	result, err := s.Dispatcher.Dispatch(ctx, id, businessIDs, platforms)
	if err != nil {
		if revertErr := s.Campaigns.UpdateStatus(campaign.ID, model.CampaignStatusDraft); revertErr != nil {
			s.Logger.Error("send: revert campaign status", zap.Int("campaign_id", id), zap.Error(revertErr))
		}
		return nil, err
	}

	final := model.CampaignStatusDraft
	if result.SentCount > 0 {
		final = model.CampaignStatusCompleted
	}
	if err := s.Campaigns.UpdateStatus(campaign.ID, final); err != nil {
		return result, err
	}
	return result, nil
}

// Pause is only valid while a campaign is sending.
func (s *CampaignService) Pause(id int) error {
	campaign, err := s.Campaigns.GetByID(id)
	if err != nil {
		return err
	}
	if campaign.Status != model.CampaignStatusSending {
		return apperrors.NewValidation("campaign is not currently sending")
	}
	return s.Campaigns.UpdateStatus(id, model.CampaignStatusPaused)
}

// Resume is only valid while a campaign is paused.
func (s *CampaignService) Resume(id int) error {
	campaign, err := s.Campaigns.GetByID(id)
	if err != nil {
		return err
	}
	if campaign.Status != model.CampaignStatusPaused {
		return apperrors.NewValidation("campaign is not currently paused")
	}
	return s.Campaigns.UpdateStatus(id, model.CampaignStatusSending)
}

// Preview delegates to the dispatcher without touching campaign state.
func (s *CampaignService) Preview(ctx context.Context, id int, businessIDs []int, platforms []string, limit int) ([]MessagePreview, error) {
	return s.Dispatcher.Preview(ctx, id, businessIDs, platforms, limit)
}
