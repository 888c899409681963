package queue

// Task names routed through the broker.
const (
	TaskProcessCSV       = "process_csv"
	TaskScanBusiness     = "scan_business"
	TaskScanAllPending   = "scan_all_pending"
	TaskDispatchCampaign = "dispatch_campaign"
)

// TaskQueueName is the durable queue all tasks flow through.
const TaskQueueName = "outreach_tasks"

type ProcessCSVPayload struct {
	CSVContent string `json:"csv_content"`
}

type ScanBusinessPayload struct {
	BusinessID int `json:"business_id"`
}

type DispatchCampaignPayload struct {
	CampaignID  int      `json:"campaign_id"`
	BusinessIDs []int    `json:"business_ids,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}
