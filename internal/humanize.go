package internal

import (
	"gigbot/entity"
	"github.com/enescakir/emoji"
	"strconv"
	"strings"
)

const dateLayout = "02/01/06"

// Humanize turns the events found for a request into the reply sentence.
// Style and date-period parameters are echoed back as qualifiers; events are
// listed one per line in the order given.
func Humanize(request entity.WebhookRequest, events []entity.Event) string {
	parameters := request.QueryResult.Parameters
	extraInfo := ""

	if style := parameters.Style(); style != "" {
		extraInfo += " sobre " + style
	}
	if period, ok := parameters.DatePeriod(); ok {
		extraInfo += " entre " + period.StartDate.Format(dateLayout) + " y " + period.EndDate.Format(dateLayout)
	}

	if len(events) == 0 {
		return "Lo siento no he podido encontrar nada" + extraInfo
	}

	prefix := ""
	if strings.EqualFold(request.Source(), "slack") {
		prefix = emoji.Calendar.String() + " "
	}

	var b strings.Builder
	b.WriteString("He encontrado " + strconv.Itoa(len(events)) + " resultados" + extraInfo + ". Son los siguientes:\n")
	for _, e := range events {
		b.WriteString(prefix + "El grupo " + e.Name + " organiza " + e.EventName +
			" el próximo día " + e.EventDate.Format(dateLayout) + ".\n")
	}
	return b.String()
}
