package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
	"github.com/openoutreach/outreach-backend/internal/sender"
)

// ManualInstruction tells a human operator how to deliver a message on a
// platform without an automated send path.
type ManualInstruction struct {
	Platform     string `json:"platform"`
	ContactURL   string `json:"contact_url"`
	BusinessName string `json:"business_name"`
	Message      string `json:"message"`
	Instructions string `json:"instructions"`
}

type DispatchResult struct {
	Success         bool                `json:"success"`
	SentCount       int                 `json:"sent_count"`
	FailedCount     int                 `json:"failed_count"`
	PendingManual   []ManualInstruction `json:"social_media_instructions"`
	TotalBusinesses int                 `json:"total_businesses"`
}

type MessagePreview struct {
	BusinessName        string `json:"business_name"`
	Platform            string `json:"platform"`
	ContactValue        string `json:"contact_value"`
	PersonalizedMessage string `json:"personalized_message"`
}

// Dispatcher generates and sends campaign messages across the cross product
// of target businesses and platforms. Every (campaign, business, contact,
// platform) tuple produces at most one message ever; re-running a dispatch
// is a no-op for covered tuples.
type Dispatcher struct {
	Campaigns  repository.CampaignRepositoryInterface
	Businesses repository.BusinessRepositoryInterface
	Contacts   repository.ContactRepositoryInterface
	Messages   repository.MessageRepositoryInterface
	Sender     sender.EmailSender
	Logger     *zap.Logger
}

// Dispatch processes each pair independently and commits the final message
// state per pair, so progress survives a later failure. The error return is
// reserved for failures before iteration begins.
func (d *Dispatcher) Dispatch(ctx context.Context, campaignID int, businessIDs []int, platforms []string) (*DispatchResult, error) {
	campaign, err := d.Campaigns.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	if len(platforms) == 0 {
		platforms = []string{model.ContactTypeEmail}
	}

	businesses, err := d.targetBusinesses(businessIDs)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{
		Success:         true,
		PendingManual:   []ManualInstruction{},
		TotalBusinesses: len(businesses),
	}

	for _, business := range businesses {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		for _, platform := range platforms {
			d.dispatchPair(campaign, business, platform, result)
		}
	}

	d.Logger.Info("campaign dispatch completed",
		zap.Int("campaign_id", campaignID),
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount),
		zap.Int("manual", len(result.PendingManual)),
	)
	return result, nil
}

// dispatchPair runs the per-pair state machine: resolve contact, idempotency
// check, compose, insert pending, then send or defer to a manual
// instruction. Failures are terminal for the pair and logged.
func (d *Dispatcher) dispatchPair(campaign *model.Campaign, business *model.Business, platform string, result *DispatchResult) {
	contact, err := d.Contacts.FindByBusinessAndType(business.ID, platform)
	if err != nil {
		d.Logger.Error("dispatch: resolve contact", zap.Int("business_id", business.ID), zap.String("platform", platform), zap.Error(err))
		return
	}
	if contact == nil {
		return
	}

	exists, err := d.Messages.Exists(campaign.ID, business.ID, contact.ID, platform)
	if err != nil {
		d.Logger.Error("dispatch: message lookup", zap.Int("business_id", business.ID), zap.String("platform", platform), zap.Error(err))
		return
	}
	if exists {
		return
	}

	content := Compose(campaign.MessageTemplate, business, contact)
	message := &model.Message{
		CampaignID:          campaign.ID,
		BusinessID:          business.ID,
		ContactID:           contact.ID,
		Platform:            platform,
		PersonalizedContent: content,
		Status:              model.MessageStatusPending,
	}
	if err := d.Messages.Create(message); err != nil {
		d.Logger.Error("dispatch: create message", zap.Int("business_id", business.ID), zap.String("platform", platform), zap.Error(err))
		return
	}

	if platform != model.ContactTypeEmail {
		// No automated send path; surface instructions and leave the
		// message pending.
		result.PendingManual = append(result.PendingManual, ManualInstruction{
			Platform:     platform,
			ContactURL:   contact.Value,
			BusinessName: business.Name,
			Message:      content,
			Instructions: fmt.Sprintf("Please visit %s and send this message manually via %s.", contact.Value, platform),
		})
		return
	}

	subject := fmt.Sprintf("Message from %s", campaign.Name)
	if err := d.Sender.Send(contact.Value, subject, content); err != nil {
		d.Logger.Error("dispatch: send email", zap.String("to", contact.Value), zap.Error(err))
		if err := d.Messages.MarkFailed(message.ID); err != nil {
			d.Logger.Error("dispatch: mark message failed", zap.Int("message_id", message.ID), zap.Error(err))
		}
		result.FailedCount++
		return
	}

	if err := d.Messages.MarkSent(message.ID, time.Now()); err != nil {
		d.Logger.Error("dispatch: mark message sent", zap.Int("message_id", message.ID), zap.Error(err))
	}
	result.SentCount++
}

// Preview composes up to limit business/platform pairs without persisting
// messages or invoking the send capability.
func (d *Dispatcher) Preview(ctx context.Context, campaignID int, businessIDs []int, platforms []string, limit int) ([]MessagePreview, error) {
	campaign, err := d.Campaigns.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	if len(platforms) == 0 {
		platforms = []string{model.ContactTypeEmail}
	}
	if limit <= 0 {
		limit = 5
	}

	businesses, err := d.targetBusinesses(businessIDs)
	if err != nil {
		return nil, err
	}
	if len(businesses) > limit {
		businesses = businesses[:limit]
	}

	previews := []MessagePreview{}
	for _, business := range businesses {
		for _, platform := range platforms {
			contact, err := d.Contacts.FindByBusinessAndType(business.ID, platform)
			if err != nil {
				return nil, err
			}
			if contact == nil {
				continue
			}
			previews = append(previews, MessagePreview{
				BusinessName:        business.Name,
				Platform:            platform,
				ContactValue:        contact.Value,
				PersonalizedMessage: Compose(campaign.MessageTemplate, business, contact),
			})
		}
	}
	return previews, nil
}

func (d *Dispatcher) targetBusinesses(businessIDs []int) ([]*model.Business, error) {
	if len(businessIDs) > 0 {
		return d.Businesses.ListByIDs(businessIDs)
	}
	return d.Businesses.ListAll()
}
