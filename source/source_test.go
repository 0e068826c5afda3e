package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vespabridge/searchkit/source"
)

func TestAvailableExcludesOwnedSchemas(t *testing.T) {
	all := []string{"file", "user", "mail", "mail_attachment", "event", "chat_message", "chat_user"}
	got := source.Available(all, []source.App{source.Gmail, source.Slack})
	assert.ElementsMatch(t, []string{"file", "user", "event"}, got)
}

func TestForAllowListDeduplicates(t *testing.T) {
	got := source.ForAllowList([]source.App{source.Gmail, source.GoogleDrive, source.Gmail})
	assert.ElementsMatch(t, []string{"mail", "mail_attachment", "file"}, got)
}
