package entity

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaused   Status = "paused"
	StatusBlocked  Status = "blocked" // never materialized on disk
)
