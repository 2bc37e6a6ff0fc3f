package wallpaper

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandApplier_Validation(t *testing.T) {
	_, err := NewCommandApplier("   ", testLogger())
	assert.Error(t, err)

	_, err = NewCommandApplier("feh --bg-fill", testLogger())
	assert.Error(t, err)

	_, err = NewCommandApplier("feh --bg-fill {path}", testLogger())
	assert.NoError(t, err)
}

func TestCommandApplier_Command(t *testing.T) {
	a, err := NewCommandApplier("gsettings set org.gnome.desktop.background picture-uri file://{path}", testLogger())
	require.NoError(t, err)

	argv := a.Command("/home/me/My Themes/lakeside_3.jpg")
	assert.Equal(t, []string{
		"gsettings", "set", "org.gnome.desktop.background", "picture-uri",
		"file:///home/me/My Themes/lakeside_3.jpg",
	}, argv)
}

func TestCommandApplier_Apply(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	ok, err := NewCommandApplier("true {path}", testLogger())
	require.NoError(t, err)
	assert.NoError(t, ok.Apply(context.Background(), "/tmp/a.jpg"))

	failing, err := NewCommandApplier("false {path}", testLogger())
	require.NoError(t, err)
	assert.Error(t, failing.Apply(context.Background(), "/tmp/a.jpg"))
}
