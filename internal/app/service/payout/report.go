package payout

import "fmt"

// BatchReport summarizes one payout run. Groups are per-recipient; a group
// either succeeds (payout paid out, donations claimed), fails (payout row
// marked failed, donations left for the next run) or is skipped (below
// threshold or no configured destination).
type BatchReport struct {
	GroupsProcessed int      `json:"groups_processed"`
	Succeeded       int      `json:"succeeded"`
	Failed          int      `json:"failed"`
	Skipped         int      `json:"skipped"`
	Errors          []string `json:"errors,omitempty"`
}

func (r *BatchReport) recordSuccess() {
	r.GroupsProcessed++
	r.Succeeded++
}

func (r *BatchReport) recordSkip() {
	r.GroupsProcessed++
	r.Skipped++
}

func (r *BatchReport) recordFailure(recipientID string, err error) {
	r.GroupsProcessed++
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("recipient %s: %v", recipientID, err))
}
