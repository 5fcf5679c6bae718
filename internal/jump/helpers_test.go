package jump

import (
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"

	"neptune/internal/record"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordList is a RecordSource over fixed records.
type recordList struct {
	recs []record.Record
	errs map[int]error
	pos  int
}

func (l *recordList) Next() (record.Record, error) {
	if err, ok := l.errs[l.pos]; ok {
		delete(l.errs, l.pos)
		return record.Record{}, err
	}
	if l.pos >= len(l.recs) {
		return record.Record{}, io.EOF
	}
	rec := l.recs[l.pos]
	l.pos++
	return rec, nil
}

func records(recs ...record.Record) *recordList {
	return &recordList{recs: recs}
}

func jumpRecordRec(n uint64, jumpType byte, exitM, deployM uint16) record.Record {
	d := make([]byte, 22)
	binary.LittleEndian.PutUint16(d[0:], uint16(n-1))
	d[offJumpType] = jumpType
	binary.LittleEndian.PutUint16(d[offExitAlt:], exitM)
	binary.LittleEndian.PutUint16(d[offDeployAlt:], deployM)
	return record.Record{Type: record.TypeJumpRecord, Data: d}
}

func profileStartRec(n uint64, groundRaw, freefallTicks, canopyTicks uint16) record.Record {
	d := make([]byte, 10)
	binary.LittleEndian.PutUint16(d[0:], uint16(n-1))
	binary.LittleEndian.PutUint16(d[offGroundAlt:], groundRaw)
	binary.LittleEndian.PutUint16(d[offFreefallStart:], freefallTicks)
	binary.LittleEndian.PutUint16(d[offCanopyStart:], canopyTicks)
	return record.Record{Type: record.TypeProfileStart, Data: d}
}

func datapointRec(altM, ticks uint16) record.Record {
	d := make([]byte, 4)
	binary.LittleEndian.PutUint16(d[offPointAltitude:], altM)
	binary.LittleEndian.PutUint16(d[offPointTime:], ticks)
	return record.Record{Type: record.TypeProfileDatapoint, Data: d}
}

func streamRec(code byte) record.Record {
	return record.Record{Type: record.TypeStreamType, Data: []byte{code}}
}

func markerRec(t record.Type) record.Record {
	return record.Record{Type: t}
}
