package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicyBlocksConventionalShortcuts(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.BlockContextMenu)
	assert.ElementsMatch(t, []string{"c", "v", "u", "s", "p"}, p.BlockedKeys)
}

func TestEventKindValidation(t *testing.T) {
	for _, k := range []EventKind{EventContextMenu, EventCopy, EventPaste, EventViewSource, EventSave, EventPrint} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, EventKind("screenshot").Valid())
	assert.False(t, EventKind("").Valid())
}
