package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticLocationProvider(t *testing.T) {
	p := NewStaticLocationProvider("https://tz.example.com/?timezones=IST,UTC#top")

	assert.Equal(t, "https://tz.example.com/", p.BaseURL())
	assert.Equal(t, "timezones=IST,UTC", p.Query())

	p.ReplaceQuery("?timezones=JST")
	assert.Equal(t, "timezones=JST", p.Query())
	assert.Equal(t, "https://tz.example.com/", p.BaseURL())

	p.ReplaceQuery("")
	assert.Empty(t, p.Query())
}
