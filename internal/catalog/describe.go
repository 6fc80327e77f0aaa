package catalog

import (
	"net/http"
	"strings"
)

// endpointContexts are matched in order against the path template; the
// first match is appended to the description.
var endpointContexts = []struct {
	fragment string
	text     string
}{
	{"/test", "Runs diagnostic tests and validations."},
	{"/sync", "Triggers data synchronization."},
	{"/resync", "Re-syncs historical data (expensive operation)."},
	{"/state", "Manages sync states and configuration."},
	{"/schemas", "Manages table and column configurations."},
	{"/certificates", "Manages SSL certificates for secure connections."},
	{"/fingerprints", "Manages SSH key fingerprints."},
	{"/webhooks", "Manages event notifications and alerts."},
	{"/transformations", "Manages dbt transformations and data models."},
	{"/users", "Manages user accounts and permissions."},
	{"/teams", "Manages team memberships and roles."},
	{"/groups", "Manages resource organization and access control."},
}

const writeWarning = "WRITE OPERATION - Confirm with user before calling."

// Describe renders the agent-facing description of op from its summary,
// method, path and parameters. It is pure and is applied once when a
// catalog is built.
func Describe(op Operation) string {
	var b strings.Builder
	b.WriteString(op.Summary)

	switch op.Method {
	case http.MethodGet:
		b.WriteString(" (Read-only operation)")
	case http.MethodPost:
		b.WriteString(" " + writeWarning + " Creates new resources.")
	case http.MethodPatch:
		b.WriteString(" " + writeWarning + " Modifies existing resources.")
	case http.MethodDelete:
		b.WriteString(" " + writeWarning + " Permanently removes resources.")
	}

	for _, ec := range endpointContexts {
		if strings.Contains(op.Path, ec.fragment) {
			b.WriteString(" " + ec.text)
			break
		}
	}

	if op.Paginated {
		b.WriteString(" Returns every page merged into one list unless a cursor is given.")
	}

	var required []string
	for _, p := range op.Params {
		if !p.Required {
			continue
		}
		if p.Format != "" {
			required = append(required, p.Name+" (format: "+p.Format+")")
		} else {
			required = append(required, p.Name)
		}
	}
	if len(required) > 0 {
		b.WriteString("\nRequired: " + strings.Join(required, ", "))
	}

	writeFields(&b, "Configuration example", op.Example)
	writeFields(&b, "Common updates", op.CommonUpdates)
	return b.String()
}

func writeFields(b *strings.Builder, title string, fields []Field) {
	if len(fields) == 0 {
		return
	}
	b.WriteString("\n\n" + title + ":")
	for _, f := range fields {
		b.WriteString("\n- " + f.Key + ": " + f.Text)
	}
}
