package config

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLogging(t *testing.T) {
	c := Default()
	c.Logging.Level = " Warning "
	c.Logging.Format = "xml"

	res, err := NormalizeConfig(c)
	require.NoError(t, err)

	assert.Equal(t, LogLevelWarn, c.Logging.Level)
	assert.Equal(t, LogFormatText, c.Logging.Format)
	assert.Len(t, res.Warnings, 2)
}

func TestNormalizeTrimsPatternsAndCardsDir(t *testing.T) {
	c := Default()
	c.Exclude.Patterns = []string{" **/.shared ", "", "  "}
	c.Social.CardsDir = "/assets/cards/"

	_, err := NormalizeConfig(c)
	require.NoError(t, err)

	assert.Equal(t, []string{"**/.shared"}, c.Exclude.Patterns)
	assert.Equal(t, "assets/cards", c.Social.CardsDir)
}

func TestNormalizeNil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#000", color.NRGBA{0, 0, 0, 255}, true},
		{"#52526B", color.NRGBA{0x52, 0x52, 0x6b, 255}, true},
		{"ffffff80", color.NRGBA{255, 255, 255, 0x80}, true},
		{"#12345", color.NRGBA{}, false},
		{"#gggggg", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("").SlogLevel().String())
	assert.Equal(t, "ERROR", LogLevelError.SlogLevel().String())
}
