package titan

import (
	"bytes"
	"context"
	"mime/quotedprintable"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klrn-data/schedcheck/pkg/schedule"
)

const gridFixture = `<html><body>
<form id="gridForm">
  <div id="dateHeaderDiv">
    <div class="cellBase dateHdrCell" title="Monday - 03/17/2025">Mon 3/17</div>
    <div class="cellBase dateHdrCell" title="Tuesday - 03/18/2025">Tue 3/18</div>
  </div>
  <div id="gCol0">
    <div class="cellBase normal pointerCursor">Morning Edition 8:00 Epi#: 101 Top stories of the day</div>
    <div class="cellBase normal pointerCursor">Midday News 12:00</div>
    <div class="cellBase normal pointerCursor">Nature 7:30 Epi#: 4502 Wild coasts</div>
    <div class="cellBase normal pointerCursor">Late Film 11:30</div>
  </div>
  <div id="gCol1">
    <div class="cellBase normal pointerCursor">Sunrise Yoga 6:00</div>
    <div class="cellBase normal pointerCursor">Station Break</div>
  </div>
</form>
</body></html>`

func writeMHTML(t *testing.T, name, htmlBody string) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/related; boundary=\"----boundary\"\r\n\r\n")
	buf.WriteString("------boundary\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	qw := quotedprintable.NewWriter(&buf)
	_, err := qw.Write([]byte(htmlBody))
	require.NoError(t, err)
	require.NoError(t, qw.Close())
	buf.WriteString("\r\n------boundary--\r\n")

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestParseFileResolvesGrid(t *testing.T) {
	src := New()
	got, err := src.ParseFile(context.Background(), writeMHTML(t, "MediaStar_9.1.mhtml", gridFixture))
	require.NoError(t, err)
	require.Len(t, got, 5, "the timeless cell is dropped")

	mar17 := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	mar18 := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)

	want := schedule.Schedule{
		{
			Channel: "9.1", Date: mar17, Start: schedule.Clock{Hour: 8},
			Name: "Morning Edition", EpisodeNumber: "#101", Description: "Top stories of the day",
		},
		{Channel: "9.1", Date: mar17, Start: schedule.Clock{Hour: 12}, Name: "Midday News"},
		{
			Channel: "9.1", Date: mar17, Start: schedule.Clock{Hour: 19, Minute: 30},
			Name: "Nature", EpisodeNumber: "#4502", Description: "Wild coasts",
		},
		{Channel: "9.1", Date: mar17, Start: schedule.Clock{Hour: 23, Minute: 30}, Name: "Late Film"},
		{Channel: "9.1", Date: mar18, Start: schedule.Clock{Hour: 6}, Name: "Sunrise Yoga"},
	}
	assert.Equal(t, want, got)
}

func TestParseFilePlainHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.html")
	require.NoError(t, os.WriteFile(path, []byte(gridFixture), 0o644))

	src := New()
	got, err := src.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, DefaultChannel, got[0].Channel, "no channel suffix in the file name")
}

func TestParseFileHeaderColumnMismatch(t *testing.T) {
	fixture := `<html><body><form id="gridForm">
	  <div id="dateHeaderDiv">
	    <div class="cellBase dateHdrCell" title="Monday - 03/17/2025">Mon</div>
	  </div>
	  <div id="gCol0"><div class="cellBase normal pointerCursor">A 8:00</div></div>
	  <div id="gCol1"><div class="cellBase normal pointerCursor">B 9:00</div></div>
	</form></body></html>`

	src := New()
	_, err := src.ParseFile(context.Background(), writeMHTML(t, "MediaStar_9.1.mhtml", fixture))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "align")
}

func TestParseFileNoGrid(t *testing.T) {
	src := New()
	_, err := src.ParseFile(context.Background(), writeMHTML(t, "MediaStar_9.1.mhtml", "<html><body>empty</body></html>"))
	assert.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	src := New()
	_, err := src.ParseFile(context.Background(), filepath.Join(t.TempDir(), "absent.mhtml"))
	assert.Error(t, err)
}

func TestSplitCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want schedule.RawListing
		skip bool
	}{
		{
			name: "full cell",
			cell: "NOVA 8:30 Epi#: 4501 Secrets of the sun",
			want: schedule.RawListing{
				Clock: schedule.Clock{Hour: 8, Minute: 30},
				Name:  "NOVA", EpisodeNumber: "#4501", Description: "Secrets of the sun",
			},
		},
		{
			name: "episode with letter suffix",
			cell: "Masterpiece 9:00 Epi#: 5110a Encore presentation",
			want: schedule.RawListing{
				Clock: schedule.Clock{Hour: 9},
				Name:  "Masterpiece", EpisodeNumber: "#5110a", Description: "Encore presentation",
			},
		},
		{
			name: "no episode marker",
			cell: "PBS News Hour 6:00",
			want: schedule.RawListing{Clock: schedule.Clock{Hour: 6}, Name: "PBS News Hour"},
		},
		{
			name: "ragged whitespace",
			cell: "  Antiques   Roadshow   7:00  ",
			want: schedule.RawListing{Clock: schedule.Clock{Hour: 7}, Name: "Antiques Roadshow"},
		},
		{name: "no time", cell: "Station Identification", skip: true},
		{name: "empty", cell: "", skip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := splitCell("test.mhtml", tt.cell)
			if tt.skip {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannelFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "data/MediaStar_9.1.mhtml", want: "9.1"},
		{path: "data/MediaStar_9.4.mhtml", want: "9.4"},
		{path: "data/grid.mhtml", want: DefaultChannel},
		{path: "data/grid.html", want: DefaultChannel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, channelFromFilename(tt.path), tt.path)
	}
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, "titan", New().ID())
}
