package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/parcel/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, output.IsTerminal(&bytes.Buffer{}))
}

func TestNew(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")

	var buf bytes.Buffer
	out := output.New(&buf)
	assert.Equal(t, termenv.Ascii, out.Profile, "buffers are not terminals")

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_ProfileOverride(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := output.New(&buf, termenv.WithProfile(termenv.ANSI))
	assert.Equal(t, termenv.ANSI, out.Profile)
}

func TestNew_Nil(t *testing.T) {
	t.Parallel()

	out := output.New(nil)
	assert.NotNil(t, out)
}
