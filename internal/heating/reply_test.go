package heating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageText(t *testing.T) {
	assert.Equal(t,
		"Kein Raum angegeben. Mögliche Raumnamen: `salon`, `wohnzimmer`, `atelier`, `loetlabor` (in exakt dieser Schreibweise)",
		usageText([]string{"salon", "wohnzimmer", "atelier", "loetlabor"}))
}

func TestSwitchedText(t *testing.T) {
	assert.Equal(t,
		"Heizung `turn_off` in `salon` von jakob (`switch.heizung_salon`), Kommentar: via slack, von jakob",
		switchedText("turn_off", "salon", "jakob", "switch.heizung_salon", "via slack, von jakob"))
}

func TestReply_IsJSON(t *testing.T) {
	assert.False(t, plainReply("x").IsJSON())
	assert.True(t, Reply{Text: "x", Visibility: VisibilityEphemeral}.IsJSON())
	assert.True(t, Reply{Text: "x", Visibility: VisibilityInChannel}.IsJSON())
}
