package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTheme(t *testing.T) {
	theme, err := ParseTheme("")
	assert.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	assert.Equal(t, ThemeDark, theme.Toggle())
	assert.Equal(t, ThemeLight, theme.Toggle().Toggle())
	assert.True(t, ThemeDark.IsDark())

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}
