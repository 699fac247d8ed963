package repository

import (
	"time"

	"ndr-srv/internal/model"
)

type CreateAttemptOptions struct {
	NDRID   string
	Channel model.Channel
	// Recipient is stored as given. Callers encrypt it beforehand.
	Recipient string
	Content   string
	Operator  bool
	Actor     model.Actor
}

type CompleteAttemptOptions struct {
	ID               string
	Outcome          model.OutreachOutcome
	ProviderRef      string
	ProviderResponse string
	Error            string
	CompletedAt      time.Time
}

type CreateResponseOptions struct {
	Response model.CustomerResponse
}
