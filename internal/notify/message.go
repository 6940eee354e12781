package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/service"
)

// IncidentalAdded builds the message sent when a user records an incidental
// report. The PIC is used as recipient only when it looks like an address.
func IncidentalAdded(inst model.ReportInstance) service.Message {
	deadline := model.FormatDate(inst.Deadline)
	name := html.EscapeString(inst.ReportName)

	body := fmt.Sprintf(`<p>A new incidental report has been added.</p>
<table>
<tr><td><b>Report</b></td><td>%s</td></tr>
<tr><td><b>Received</b></td><td>%s</td></tr>
<tr><td><b>Deadline</b></td><td>%s</td></tr>
<tr><td><b>PIC</b></td><td>%s</td></tr>
</table>`,
		name,
		model.FormatDate(inst.FromDate),
		deadline,
		html.EscapeString(inst.ResponsibleParty))

	var to string
	if strings.Contains(inst.ResponsibleParty, "@") {
		to = inst.ResponsibleParty
	}

	return service.Message{
		To:       to,
		Subject:  fmt.Sprintf("New report: %s due %s", inst.ReportName, deadline),
		HTMLBody: body,
	}
}

// LogNotifier records notifications in the log instead of sending them. It is
// used when no mail relay is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs msg and never fails.
func (n LogNotifier) Notify(_ context.Context, msg service.Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Notification (mail relay not configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}
