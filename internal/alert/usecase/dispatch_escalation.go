package usecase

import (
	"context"
	"fmt"
	"strconv"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"
)

func (uc *implUseCase) DispatchEscalation(ctx context.Context, input alert.EscalationInput) error {
	if input.NDRID == "" {
		return alert.ErrInvalidInput
	}

	fields := []discord.EmbedField{
		buildField("Priority", input.Priority, true),
		buildField("Risk Score", strconv.Itoa(input.RiskScore), true),
		buildField("Attempts", strconv.Itoa(input.AttemptNumber), true),
		buildField("Reason", input.Reason, true),
		buildField("Status", input.Status, true),
		buildField("Escalated By", input.Actor, true),
	}
	if input.Note != "" {
		fields = append(fields, buildField("Note", input.Note, false))
	}

	ts := input.EscalatedAt
	if ts.IsZero() {
		ts = uc.clock()
	}

	return uc.send(ctx, "DispatchEscalation", discord.MessageOptions{
		Type:        mapPriorityToType(input.Priority),
		Title:       fmt.Sprintf("NDR escalated: %s", input.Code),
		Description: fmt.Sprintf("Exception **%s** (%s) needs operations attention.", input.Code, input.NDRID),
		Fields:      fields,
		Timestamp:   ts,
		Footer:      &discord.EmbedFooter{Text: "NDR Engine • Escalation"},
	})
}
