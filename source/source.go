// Package source maps applications to the corpus schemas they own, so the
// Dispatch API can turn a set of disconnected/excluded apps into a source
// list, and so Agent-mode search can invert that mapping into a source set
// from a caller-supplied allow-list of apps.
package source

// App identifies one of the connected applications a corpus schema belongs
// to.
type App string

const (
	Slack           App = "Slack"
	Gmail           App = "Gmail"
	GoogleDrive     App = "GoogleDrive"
	GoogleCalendar  App = "GoogleCalendar"
	GoogleWorkspace App = "GoogleWorkspace"
)

// Schemas excluded from the available source list when the corresponding
// app is excluded (disconnected, or not present in an allow-list).
var schemasByApp = map[App][]string{
	Slack:           {"chat_message", "chat_user"},
	Gmail:           {"mail", "mail_attachment"},
	GoogleDrive:     {"file"},
	GoogleCalendar:  {"event"},
	GoogleWorkspace: {"user"},
}

// Available returns the subset of all configured schema sources that
// remains after removing the schemas owned by every excluded app.
func Available(all []string, excludedApps []App) []string {
	excludedSchemas := make(map[string]struct{})
	for _, app := range excludedApps {
		for _, schema := range schemasByApp[app] {
			excludedSchemas[schema] = struct{}{}
		}
	}

	out := make([]string, 0, len(all))
	for _, schema := range all {
		if _, excluded := excludedSchemas[schema]; !excluded {
			out = append(out, schema)
		}
	}
	return out
}

// ForAllowList inverts Available for Agent-mode search: given an allow-list
// of apps a caller explicitly wants searched, return the schema set those
// apps own. Apps absent from schemasByApp (none in this corpus, but callers
// may pass unknown apps) contribute no schemas.
func ForAllowList(allowed []App) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(allowed)*2)
	for _, app := range allowed {
		for _, schema := range schemasByApp[app] {
			if _, ok := seen[schema]; ok {
				continue
			}
			seen[schema] = struct{}{}
			out = append(out, schema)
		}
	}
	return out
}
