package themes

import (
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	theme, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "default", theme.Name)

	theme, err = ByName("catppuccin")
	require.NoError(t, err)
	assert.Equal(t, "catppuccin", theme.Name)

	_, err = ByName("neon")
	assert.Error(t, err)

	assert.Equal(t, []string{"catppuccin", "default"}, Names())
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, Default.High, Default.Severity(model.SeverityHigh))
	assert.Equal(t, Default.Low, Default.Severity(model.SeverityLow))
	assert.Equal(t, Default.Medium, Default.Severity(model.SeverityMedium))
	assert.Equal(t, Default.Medium, Default.Severity(""))
}
