package provider

import (
	"fmt"
	"strings"
	"text/template"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
)

var defaultTemplates = map[model.Reason]string{
	model.ReasonCustomerUnavailable: `Hi {{.CustomerName}}, {{.Carrier}} could not reach you to deliver order {{.OrderCode}}. Reply with a time that suits you and we will deliver again.`,
	model.ReasonWrongAddress:        `Hi {{.CustomerName}}, we could not find the delivery address for order {{.OrderCode}}. Please reply with the full address or a landmark.`,
	model.ReasonPhoneUnreachable:    `Hi {{.CustomerName}}, our courier could not call you about order {{.OrderCode}}. Please share a number we can reach you on.`,
	model.ReasonCustomerRefused:     `Hi {{.CustomerName}}, order {{.OrderCode}} was marked as refused. If this was a mistake, reply and we will arrange a new delivery.`,
	model.ReasonCODNotReady:         `Hi {{.CustomerName}}, order {{.OrderCode}} needs a cash payment of {{printf "%.2f" .CODAmount}} on delivery. Reply when you are ready and we will come again.`,
	model.ReasonRescheduleRequested: `Hi {{.CustomerName}}, we received your request to reschedule order {{.OrderCode}}. Reply with your preferred day.`,
	model.ReasonOther:               `Hi {{.CustomerName}}, there was a problem delivering order {{.OrderCode}} (tracking {{.TrackingNumber}}). Please reply so we can help.`,
}

type templateRenderer struct {
	tpls map[model.Reason]*template.Template
}

// NewTemplateRenderer parses the default templates, replaced per reason by overrides.
func NewTemplateRenderer(overrides map[model.Reason]string) (outreach.Renderer, error) {
	r := templateRenderer{tpls: map[model.Reason]*template.Template{}}
	for reason, text := range defaultTemplates {
		if o, ok := overrides[reason]; ok && strings.TrimSpace(o) != "" {
			text = o
		}
		t, err := template.New(string(reason)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", reason, err)
		}
		r.tpls[reason] = t
	}
	return r, nil
}

func (r templateRenderer) Render(reason model.Reason, data outreach.TemplateData) (string, error) {
	t, ok := r.tpls[reason]
	if !ok {
		t = r.tpls[model.ReasonOther]
	}
	if data.CustomerName == "" {
		data.CustomerName = "there"
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
