package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/blaze/internal/ui/output"
	"go.trai.ch/blaze/internal/ui/style"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestColorProfileFor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.Ascii, output.ColorProfileFor(&bytes.Buffer{}), "buffers are never terminals")
	assert.False(t, output.IsTerminal(&bytes.Buffer{}))
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf)
	assert.Equal(t, termenv.Ascii, out.Profile)

	_, err := out.WriteString(out.String("plain").Bold().String())
	assert.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		write func(*bytes.Buffer)
		want  string
	}{
		{
			name:  "info",
			write: func(b *bytes.Buffer) { output.Infof(b, "Found %d targets...", 2) },
			want:  "INFO: Found 2 targets...\n",
		},
		{
			name:  "error",
			write: func(b *bytes.Buffer) { output.Errorf(b, "%s", "unknown command: frobnicate") },
			want:  "ERROR: unknown command: frobnicate\n",
		},
		{
			name:  "failed",
			write: func(b *bytes.Buffer) { output.Failedf(b, "Build did NOT complete successfully") },
			want:  "FAILED: Build did NOT complete successfully\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(&buf)
			assert.Equal(t, tt.want, buf.String(), "captured streams stay plain")
		})
	}
}

func TestStyledBuffersArePlain(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "//pkg:name", output.Styled(&buf, style.Heading).Render("//pkg:name"))
}
