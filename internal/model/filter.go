package model

// SubmissionFilter holds criteria for querying submissions. The endpoint
// layer always sets ActorID for non-superusers: lists are ownership-scoped.
type SubmissionFilter struct {
	Kind    string   `json:"kind,omitempty"`
	ActorID string   `json:"actor_id,omitempty"`
	Status  []Status `json:"status,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}
