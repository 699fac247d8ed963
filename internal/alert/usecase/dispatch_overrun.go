package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"
)

func (uc *implUseCase) DispatchSchedulerOverrun(ctx context.Context, input alert.SchedulerOverrunInput) error {
	if input.RunID == "" {
		return alert.ErrInvalidInput
	}

	fields := []discord.EmbedField{
		buildField("Instance", input.Instance, true),
		buildField("Started", input.StartedAt.UTC().Format(time.RFC3339), true),
		buildField("Deadline", input.DeadlineAt.UTC().Format(time.RFC3339), true),
		buildField("Contexts Evaluated", strconv.Itoa(input.Evaluated), true),
		buildField("Error", input.Error, false),
	}

	return uc.send(ctx, "DispatchSchedulerOverrun", discord.MessageOptions{
		Type:        discord.MessageTypeError,
		Title:       "Scheduler run overran its deadline",
		Description: fmt.Sprintf("Run `%s` was marked failed. The next tick is not blocked.", input.RunID),
		Fields:      fields,
		Timestamp:   uc.clock(),
		Footer:      &discord.EmbedFooter{Text: "NDR Engine • Scheduler"},
	})
}
