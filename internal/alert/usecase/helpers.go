package usecase

import (
	"context"
	"fmt"
	"strings"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"
)

// mapPriorityToType maps NDR priority to the embed message type.
func mapPriorityToType(priority string) discord.MessageType {
	switch strings.ToUpper(priority) {
	case "CRITICAL":
		return discord.MessageTypeError
	case "HIGH":
		return discord.MessageTypeWarning
	default:
		return discord.MessageTypeInfo
	}
}

func buildField(name string, value string, inline bool) discord.EmbedField {
	if value == "" {
		value = "N/A"
	}
	// Discord rejects field values above 1024 chars
	if len(value) > 1024 {
		value = truncateText(value, 1024)
	}
	return discord.EmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	}
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (uc *implUseCase) send(ctx context.Context, method string, opts discord.MessageOptions) error {
	if uc.discord == nil {
		uc.logger.Debugf(ctx, "internal.alert.usecase.%s: discord disabled, dropping %q", method, opts.Title)
		return nil
	}
	if err := uc.discord.SendEmbed(ctx, opts); err != nil {
		uc.logger.Errorf(ctx, "internal.alert.usecase.%s.SendEmbed: %v", method, err)
		return fmt.Errorf("%w: %v", alert.ErrDispatchFailed, err)
	}
	return nil
}
