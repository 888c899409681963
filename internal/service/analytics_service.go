package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
)

type AnalyticsService struct {
	Businesses repository.BusinessRepositoryInterface
	Campaigns  repository.CampaignRepositoryInterface
	Messages   repository.MessageRepositoryInterface
}

type CampaignPerformance struct {
	CampaignName string  `json:"campaign_name"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	Total        int     `json:"total_messages"`
	Sent         int     `json:"sent_messages"`
	Failed       int     `json:"failed_messages"`
	Opened       int     `json:"opened_messages"`
	Replied      int     `json:"replied_messages"`
	SuccessRate  float64 `json:"success_rate"`
}

type AnalyticsSummary struct {
	TotalBusinesses     int                   `json:"total_businesses"`
	TotalCampaigns      int                   `json:"total_campaigns"`
	TotalMessages       int                   `json:"total_messages"`
	SentMessages        int                   `json:"sent_messages"`
	FailedMessages      int                   `json:"failed_messages"`
	OpenedMessages      int                   `json:"opened_messages"`
	RepliedMessages     int                   `json:"replied_messages"`
	SuccessRate         float64               `json:"success_rate"`
	OpenRate            float64               `json:"open_rate"`
	ReplyRate           float64               `json:"reply_rate"`
	CampaignPerformance []CampaignPerformance `json:"campaign_performance"`
}

// Summary aggregates message outcomes over campaigns created in the last
// rangeDays days.
func (s *AnalyticsService) Summary(rangeDays int) (*AnalyticsSummary, error) {
	if rangeDays <= 0 {
		rangeDays = 30
	}
	since := time.Now().AddDate(0, 0, -rangeDays)

	businessCounts, err := s.Businesses.CountByStatus()
	if err != nil {
		return nil, err
	}
	totalBusinesses := 0
	for _, count := range businessCounts {
		totalBusinesses += count
	}

	campaigns, err := s.Campaigns.ListCreatedSince(since)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		TotalBusinesses:     totalBusinesses,
		TotalCampaigns:      len(campaigns),
		CampaignPerformance: []CampaignPerformance{},
	}

	for _, campaign := range campaigns {
		stats, err := s.Messages.StatsByCampaign(campaign.ID)
		if err != nil {
			return nil, err
		}

		summary.TotalMessages += stats["total"]
		summary.SentMessages += stats[model.MessageStatusSent]
		summary.FailedMessages += stats[model.MessageStatusFailed]
		summary.OpenedMessages += stats[model.MessageStatusOpened]
		summary.RepliedMessages += stats[model.MessageStatusReplied]

		summary.CampaignPerformance = append(summary.CampaignPerformance, CampaignPerformance{
			CampaignName: campaign.Name,
			Status:       campaign.Status,
			CreatedAt:    campaign.CreatedAt.Format("2006-01-02 15:04:05"),
			Total:        stats["total"],
			Sent:         stats[model.MessageStatusSent],
			Failed:       stats[model.MessageStatusFailed],
			Opened:       stats[model.MessageStatusOpened],
			Replied:      stats[model.MessageStatusReplied],
			SuccessRate:  rate(stats[model.MessageStatusSent], stats["total"]),
		})
	}

	summary.SuccessRate = rate(summary.SentMessages, summary.TotalMessages)
	summary.OpenRate = rate(summary.OpenedMessages, summary.SentMessages)
	summary.ReplyRate = rate(summary.RepliedMessages, summary.SentMessages)
	return summary, nil
}

// ExportCSV writes per-campaign performance rows for the date range.
func (s *AnalyticsService) ExportCSV(w io.Writer, rangeDays int) error {
	summary, err := s.Summary(rangeDays)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"Campaign Name", "Status", "Created Date", "Total Messages",
		"Sent Messages", "Failed Messages", "Opened Messages",
		"Replied Messages", "Success Rate (%)",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range summary.CampaignPerformance {
		row := []string{
			p.CampaignName,
			p.Status,
			p.CreatedAt,
			fmt.Sprintf("%d", p.Total),
			fmt.Sprintf("%d", p.Sent),
			fmt.Sprintf("%d", p.Failed),
			fmt.Sprintf("%d", p.Opened),
			fmt.Sprintf("%d", p.Replied),
			fmt.Sprintf("%.2f", p.SuccessRate),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(int(float64(part)/float64(whole)*10000+0.5)) / 100
}
