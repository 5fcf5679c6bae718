package jump

import (
	"math"
	"strings"

	"neptune/internal/record"
)

// Data offsets within each record type.
const (
	offJumpNumber = 0 // types 2 and 5, 2 bytes

	// type 0
	offVersion  = 1
	offRevision = 2
	offSerial   = 3
	serialLen   = 9

	// type 1
	offSumRecords    = 0
	offSumProfiles   = 2
	offSumTotalJumps = 3
	offSumFreefall   = 5
	offSumLastJump   = 9

	// type 2
	offMinute       = 2
	offHour         = 3
	offDay          = 4
	offMonth        = 5
	offYear         = 6
	offJumpType     = 7
	offMaxSpeed     = 8
	offSpeed12K     = 9
	offSpeed9K      = 10
	offSpeed6K      = 11
	offSpeed3K      = 12
	offExitAlt      = 13
	offDeployAlt    = 15
	offDataVersion  = 17
	offDataRevision = 18
	offSoftwareType = 19
	offFreefallTime = 20

	// type 4
	offStreamCode = 0

	// type 5
	offGroundAlt     = 2
	offProfileExit   = 4
	offFreefallStart = 6
	offCanopyStart   = 8

	// type 6
	offPointAltitude = 0
	offPointTime     = 2
)

// speedTenthsToMPH converts the 0.1 m/s speed bytes of a jump record.
const speedTenthsToMPH = 22.3694

// JumpNumber returns the 1-based jump number of a jump record or profile start.
func JumpNumber(rec record.Record) uint64 {
	return rec.Field(offJumpNumber, 2) + 1
}

// DeviceInfo is the payload of a version record.
type DeviceInfo struct {
	Major    int
	Minor    int
	Revision int
	Serial   string
}

// DecodeDeviceInfo decodes a version record. Firmware before 0.0.14 reports
// itself as major version 2.
func DecodeDeviceInfo(rec record.Record) DeviceInfo {
	v := rec.Byte(offVersion)
	info := DeviceInfo{
		Major:    int(v>>4) & 0x0F,
		Minor:    int(v) & 0x0F,
		Revision: int(rec.Byte(offRevision)),
	}
	if info.Major == 0 && info.Minor == 0 && info.Revision < 14 {
		info.Major = 2
	}

	var serial strings.Builder
	for i := 0; i < serialLen; i++ {
		c := rec.Byte(offSerial + i)
		if c == 0 || c == ' ' {
			break
		}
		serial.WriteByte(c)
	}
	info.Serial = serial.String()

	return info
}

// LogSummary is the payload of a jump summary record.
type LogSummary struct {
	JumpRecords     uint64
	JumpProfiles    uint64
	TotalJumps      uint64
	FreefallSeconds uint64
	LastJump        uint64
}

// DecodeLogSummary decodes a jump summary record.
func DecodeLogSummary(rec record.Record) LogSummary {
	return LogSummary{
		JumpRecords:     rec.Field(offSumRecords, 2),
		JumpProfiles:    rec.Field(offSumProfiles, 1),
		TotalJumps:      rec.Field(offSumTotalJumps, 2),
		FreefallSeconds: rec.Field(offSumFreefall, 4),
		LastJump:        rec.Field(offSumLastJump, 2) + 1,
	}
}

// JumpDetail is the full payload of a jump record. Speeds are mph rounded to
// a tenth, altitudes feet.
type JumpDetail struct {
	Number          uint64
	Minute          int
	Hour            int
	Day             int
	Month           int
	Year            int
	Type            JumpType
	MaxSpeed        float64
	Speed12K        float64
	Speed9K         float64
	Speed6K         float64
	Speed3K         float64
	AverageSpeed    float64
	ExitAltitude    float64
	DeployAltitude  float64
	DataVersion     [3]int
	SoftwareType    int
	FreefallSeconds uint64
}

func tenthsToMPH(b byte) float64 {
	return math.Round(float64(b)*speedTenthsToMPH) / 10.0
}

// DecodeJumpDetail decodes a jump record.
func DecodeJumpDetail(rec record.Record) JumpDetail {
	d := JumpDetail{
		Number:          JumpNumber(rec),
		Minute:          int(rec.Byte(offMinute)),
		Hour:            int(rec.Byte(offHour)),
		Day:             int(rec.Byte(offDay)),
		Month:           int(rec.Byte(offMonth)),
		Year:            int(rec.Byte(offYear)),
		Type:            JumpTypeFromCode(rec.Byte(offJumpType)),
		MaxSpeed:        tenthsToMPH(rec.Byte(offMaxSpeed)),
		Speed12K:        tenthsToMPH(rec.Byte(offSpeed12K)),
		Speed9K:         tenthsToMPH(rec.Byte(offSpeed9K)),
		Speed6K:         tenthsToMPH(rec.Byte(offSpeed6K)),
		Speed3K:         tenthsToMPH(rec.Byte(offSpeed3K)),
		ExitAltitude:    MetersToFeet(float64(rec.Field(offExitAlt, 2))),
		DeployAltitude:  MetersToFeet(float64(rec.Field(offDeployAlt, 2))),
		SoftwareType:    int(rec.Byte(offSoftwareType)),
		FreefallSeconds: rec.Field(offFreefallTime, 2),
	}

	v := rec.Byte(offDataVersion)
	d.DataVersion = [3]int{int(v>>4)&0x0F + 1, int(v) & 0x0F, int(rec.Byte(offDataRevision))}

	// The 3K speed is not part of the average.
	var sum float64
	var n int
	for _, s := range []float64{d.MaxSpeed, d.Speed12K, d.Speed9K, d.Speed6K} {
		if s != 0 {
			sum += s
			n++
		}
	}
	if n > 0 {
		d.AverageSpeed = math.Round(sum*10.0/float64(n)) / 10.0
	}

	return d
}

// ProfileStart is the payload of a profile start record.
type ProfileStart struct {
	Number         uint64
	GroundAltitude float64 // feet MSL
	ExitAltitude   float64 // feet AGL, duplicates the jump record
	FreefallStart  float64 // seconds
	CanopyStart    float64 // seconds
}

// DecodeProfileStart decodes a profile start record.
func DecodeProfileStart(rec record.Record) ProfileStart {
	return ProfileStart{
		Number:         JumpNumber(rec),
		GroundAltitude: MetersToFeet(float64(GroundAltitudeMeters(rec.Field(offGroundAlt, 2)))),
		ExitAltitude:   MetersToFeet(float64(rec.Field(offProfileExit, 2))),
		FreefallStart:  TicksToSeconds(rec.Field(offFreefallStart, 2)),
		CanopyStart:    TicksToSeconds(rec.Field(offCanopyStart, 2)),
	}
}

// DecodeDatapoint decodes a profile datapoint record into time (seconds) and
// altitude (feet).
func DecodeDatapoint(rec record.Record) (timeSec, altitudeFt float64) {
	return TicksToSeconds(rec.Field(offPointTime, 2)), MetersToFeet(float64(rec.Field(offPointAltitude, 2)))
}

// StreamCode returns the sub-code of a stream type record.
func StreamCode(rec record.Record) byte {
	return rec.Byte(offStreamCode)
}
