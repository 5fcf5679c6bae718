package report

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"neptune/internal/jump"
	"neptune/internal/record"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func line(t record.Type, data []byte) string {
	return record.MustEncode(t, data)
}

func versionLine() string {
	return line(record.TypeVersion, []byte{0x00, 0x31, 0x07, 'N', 'P', '1', '2', '3', ' ', ' ', ' ', ' '})
}

func summaryLine() string {
	d := make([]byte, 11)
	binary.LittleEndian.PutUint16(d[0:], 3)
	d[2] = 1
	binary.LittleEndian.PutUint16(d[3:], 250)
	binary.LittleEndian.PutUint32(d[5:], 3600)
	binary.LittleEndian.PutUint16(d[9:], 11)
	return line(record.TypeJumpSummary, d)
}

// jumpLine is jump n on 07/09/23 14:30, type 4-way, exit 4000 m, deploy
// 1000 m.
func jumpLine(n uint16) string {
	d := make([]byte, 22)
	binary.LittleEndian.PutUint16(d[0:], n-1)
	copy(d[2:], []byte{30, 14, 9, 7, 23, 4, 100, 50, 0, 50, 200})
	binary.LittleEndian.PutUint16(d[13:], 4000)
	binary.LittleEndian.PutUint16(d[15:], 1000)
	d[17] = 0x12
	d[18] = 5
	d[19] = 3
	binary.LittleEndian.PutUint16(d[20:], 58)
	return line(record.TypeJumpRecord, d)
}

// profileStartLine starts jump n at 100 m ground, freefall at 2 s, canopy at
// 5 s.
func profileStartLine(n uint16) string {
	d := make([]byte, 10)
	binary.LittleEndian.PutUint16(d[0:], n-1)
	binary.LittleEndian.PutUint16(d[2:], 100)
	binary.LittleEndian.PutUint16(d[4:], 4000)
	binary.LittleEndian.PutUint16(d[6:], 8)
	binary.LittleEndian.PutUint16(d[8:], 20)
	return line(record.TypeProfileStart, d)
}

func pointLine(altM, ticks uint16) string {
	d := make([]byte, 4)
	binary.LittleEndian.PutUint16(d[0:], altM)
	binary.LittleEndian.PutUint16(d[2:], ticks)
	return line(record.TypeProfileDatapoint, d)
}

func streamLine(code byte) string {
	return line(record.TypeStreamType, []byte{code})
}

// profileLines is a six point profile: two aircraft, three freefall and one
// canopy sample at one second intervals.
func profileLines(n uint16) []string {
	return []string{
		profileStartLine(n),
		pointLine(1000, 0),
		pointLine(1000, 4),
		streamLine(5),
		pointLine(990, 8),
		pointLine(970, 12),
		pointLine(940, 16),
		streamLine(6),
		pointLine(900, 20),
		line(record.TypeEndOfProfile, nil),
	}
}

func jumpLog(jumps ...uint16) []string {
	lines := []string{"! test log", versionLine(), summaryLine()}
	for _, n := range jumps {
		lines = append(lines, jumpLine(n))
	}
	for _, n := range jumps {
		lines = append(lines, profileLines(n)...)
	}
	return append(lines, line(record.TypeEndOfData, nil))
}

func decoder(lines []string) *record.Decoder {
	return record.NewDecoder(record.NewSliceSource(lines...), quietLogger())
}

func dataset(t *testing.T, lines []string, filter uint64) *jump.Dataset {
	t.Helper()
	ds, err := jump.BuildDataset(record.NewSliceSource(lines...), filter, quietLogger())
	require.NoError(t, err)
	return ds
}

func render(t *testing.T, opts Options, lines []string) string {
	t.Helper()
	require.NoError(t, opts.Validate())

	var buf bytes.Buffer
	w := NewWriter(&buf, quietLogger(), opts)
	if opts.Kind.NeedsDataset() {
		require.NoError(t, w.RenderDataset(dataset(t, lines, opts.JumpNumber)))
	} else {
		require.NoError(t, w.Render(decoder(lines)))
	}
	return buf.String()
}
