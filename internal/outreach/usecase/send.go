package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
	"ndr-srv/internal/outreach/repository"
)

func (uc *usecase) ManualSend(ctx context.Context, sc model.Scope, ip outreach.SendInput) (outreach.SendOutput, error) {
	if !sc.CanOperate() {
		return outreach.SendOutput{}, outreach.ErrPermissionDenied
	}
	ip.Actor = model.OperatorActor(sc.UserID)
	return uc.Send(ctx, ip)
}

func (uc *usecase) Send(ctx context.Context, ip outreach.SendInput) (outreach.SendOutput, error) {
	if !ip.Channel.IsValid() {
		return outreach.SendOutput{}, outreach.ErrInvalidChannel
	}
	if ip.Actor.Type == "" {
		ip.Actor = model.SystemActor("outreach")
	}

	n, err := uc.activeNDR(ctx, ip.NDRID)
	if err != nil {
		return outreach.SendOutput{}, err
	}

	order, err := uc.store.GetOrder(ctx, n.OrderID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.Send.store.GetOrder: %v", err)
		return outreach.SendOutput{}, err
	}
	recipient := recipientFor(order, ip.Channel)
	if recipient == "" {
		return outreach.SendOutput{}, outreach.ErrNoRecipient
	}

	content, err := uc.content(ctx, n, order, ip.MessageOverride)
	if err != nil {
		return outreach.SendOutput{}, err
	}

	sealed, err := uc.seal(recipient)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.Send.seal: %v", err)
		return outreach.SendOutput{}, err
	}

	// The attempt is stored before the provider call so a crash mid-send keeps the numbering.
	attempt, err := uc.repo.CreateAttempt(ctx, repository.CreateAttemptOptions{
		NDRID:     n.ID,
		Channel:   ip.Channel,
		Recipient: sealed,
		Content:   content,
		Operator:  ip.Actor.Type == model.ActorOperator,
		Actor:     ip.Actor,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.Send.repo.CreateAttempt: %v", err)
		return outreach.SendOutput{}, err
	}

	res, sendErr := uc.deliver(ctx, ip.Channel, recipient, content)

	opts := repository.CompleteAttemptOptions{
		ID:               attempt.ID,
		Outcome:          model.OutreachSuccess,
		ProviderRef:      res.ProviderRef,
		ProviderResponse: res.Response,
		CompletedAt:      uc.clock(),
	}
	if sendErr != nil {
		opts.Outcome = model.OutreachFailed
		opts.Error = sendErr.Error()
	}
	done, err := uc.repo.CompleteAttempt(context.WithoutCancel(ctx), opts)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.Send.repo.CompleteAttempt: %v", err)
		return outreach.SendOutput{}, err
	}
	done.Recipient = recipient

	out := outreach.SendOutput{Attempt: done, ProviderResponse: res.Response, NDR: n}
	if sendErr != nil {
		uc.l.Warnf(ctx, "outreach failed ndr=%s attempt=%d channel=%s: %v", n.Code, done.AttemptNumber, ip.Channel, sendErr)
		return out, &outreach.SendFailureError{AttemptNumber: done.AttemptNumber, Channel: ip.Channel, Err: sendErr}
	}

	out.Success = true
	uc.l.Infof(ctx, "outreach sent ndr=%s attempt=%d channel=%s ref=%s", n.Code, done.AttemptNumber, ip.Channel, res.ProviderRef)

	if n.Status == model.NDRStatusOpen {
		updated, err := uc.ndrUC.Transition(ctx, ndr.TransitionInput{
			ID:    n.ID,
			To:    model.NDRStatusActionRequested,
			Actor: ip.Actor,
			Note:  fmt.Sprintf("outreach attempt %d via %s", done.AttemptNumber, ip.Channel),
		})
		if err != nil {
			// the send already happened, the next scan sees the attempt
			uc.l.Warnf(ctx, "internal.outreach.usecase.Send.ndrUC.Transition: %v", err)
			return out, nil
		}
		out.NDR = updated
	}
	return out, nil
}

// deliver calls the transport under the provider timeout.
func (uc *usecase) deliver(ctx context.Context, channel model.Channel, recipient, content string) (outreach.TransportResult, error) {
	if uc.transport == nil {
		return outreach.TransportResult{}, outreach.ErrNoTransport
	}

	ctx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()

	start := uc.clock()
	res, err := uc.transport.SendMessage(ctx, channel, recipient, content)
	outcome := model.OutreachSuccess
	if err != nil {
		outcome = model.OutreachFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("provider timeout after %s: %w", uc.providerTimeout, err)
		}
	}
	uc.metrics.ObserveSend(string(channel), string(outcome), uc.clock().Sub(start))
	return res, err
}

func (uc *usecase) content(ctx context.Context, n model.NDR, order model.Order, override string) (string, error) {
	if msg := strings.TrimSpace(override); msg != "" {
		return msg, nil
	}
	if uc.renderer == nil {
		return "", outreach.ErrEmptyMessage
	}

	data := outreach.TemplateData{
		NDRCode:      n.Code,
		CustomerName: order.CustomerName,
		OrderCode:    order.Code,
		AttemptCount: n.AttemptNumber,
		CODAmount:    order.CODAmount,
	}
	if d, err := uc.store.GetDelivery(ctx, n.DeliveryID); err == nil {
		data.Carrier = d.Carrier
		data.TrackingNumber = d.TrackingNumber
	} else {
		uc.l.Warnf(ctx, "internal.outreach.usecase.content.store.GetDelivery: %v", err)
	}

	msg, err := uc.renderer.Render(n.Reason, data)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.content.renderer.Render: %v", err)
		return "", err
	}
	if strings.TrimSpace(msg) == "" {
		return "", outreach.ErrEmptyMessage
	}
	return msg, nil
}

func recipientFor(o model.Order, channel model.Channel) string {
	if channel == model.ChannelEmail {
		return strings.TrimSpace(o.CustomerEmail)
	}
	return strings.TrimSpace(o.CustomerPhone)
}
