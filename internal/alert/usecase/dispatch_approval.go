package usecase

import (
	"context"
	"fmt"
	"strconv"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"
)

func (uc *implUseCase) DispatchApprovalPending(ctx context.Context, input alert.ApprovalPendingInput) error {
	if input.ActionID == "" {
		return alert.ErrInvalidInput
	}

	fields := []discord.EmbedField{
		buildField("Action", input.Kind, true),
		buildField("NDR", input.NDRCode, true),
		buildField("Proposed By", input.ProposedBy, true),
		buildField("Pending Approvals", strconv.FormatInt(input.PendingCount, 10), true),
	}

	ts := input.ProposedAt
	if ts.IsZero() {
		ts = uc.clock()
	}

	return uc.send(ctx, "DispatchApprovalPending", discord.MessageOptions{
		Type:        discord.MessageTypeWarning,
		Title:       fmt.Sprintf("%s awaiting approval", input.Kind),
		Description: fmt.Sprintf("Action `%s` on %s was queued for a supervisor decision.", input.ActionID, input.NDRCode),
		Fields:      fields,
		Timestamp:   ts,
		Footer:      &discord.EmbedFooter{Text: "NDR Engine • Action Gate"},
	})
}
