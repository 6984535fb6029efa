package calib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedHDL32E(t *testing.T) {
	cal, err := LoadEmbedded("HDL-32E")
	require.NoError(t, err)
	require.Equal(t, 32, cal.NumLasers())

	// Spot-check the factory elevation fan: channel 0 is the lowest laser,
	// channel 15 is horizontal, channel 31 is the highest.
	lc, ok := cal.Lookup(0)
	require.True(t, ok)
	assert.InDelta(t, -30.67, lc.VertCorrection, 1e-9)

	lc, ok = cal.Lookup(15)
	require.True(t, ok)
	assert.InDelta(t, 0.0, lc.VertCorrection, 1e-9)

	lc, ok = cal.Lookup(31)
	require.True(t, ok)
	assert.InDelta(t, 10.67, lc.VertCorrection, 1e-9)

	for ch := 0; ch < cal.NumLasers(); ch++ {
		lc, ok := cal.Lookup(ch)
		require.True(t, ok, "channel %d", ch)
		assert.Equal(t, ch, lc.Channel)
		assert.Zero(t, lc.RotCorrection)
		assert.Zero(t, lc.DistCorrection)
	}
}

func TestLoadEmbeddedUnknownModel(t *testing.T) {
	_, err := LoadEmbedded("VLP-128")
	assert.Error(t, err)
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTempCSV(t, `channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled
0,-15.0,0.1,0.02,0.2,-0.03,true
1,1.33,-0.1,0,0,0,false
`)

	cal, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, cal.NumLasers())

	lc, ok := cal.Lookup(0)
	require.True(t, ok)
	assert.InDelta(t, -15.0, lc.VertCorrection, 1e-9)
	assert.InDelta(t, 0.1, lc.RotCorrection, 1e-9)
	assert.InDelta(t, 0.02, lc.DistCorrection, 1e-9)
	assert.InDelta(t, 0.2, lc.VertOffset, 1e-9)
	assert.InDelta(t, -0.03, lc.HorizOffset, 1e-9)

	_, ok = cal.Lookup(1)
	assert.False(t, ok, "disabled channel")
}

func TestLoadFileMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"header only", "channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled\n"},
		{"wrong header", "laser,elevation,azimuth,dist,voff,hoff,on\n0,0,0,0,0,0,true\n"},
		{"bad channel", "channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled\nx,0,0,0,0,0,true\n"},
		{"bad angle", "channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled\n0,up,0,0,0,0,true\n"},
		{"bad flag", "channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled\n0,0,0,0,0,0,maybe\n"},
		{"duplicate channel", "channel,vert_correction,rot_correction,dist_correction,vert_offset,horiz_offset,enabled\n0,0,0,0,0,0,true\n0,1,0,0,0,0,true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var path string
			if tc.name == "missing file" {
				path = filepath.Join(t.TempDir(), "nope.csv")
			} else {
				path = writeTempCSV(t, tc.content)
			}
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}
