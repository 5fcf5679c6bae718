package report

import (
	"math"

	"github.com/sirupsen/logrus"

	"neptune/internal/jump"
	"neptune/internal/record"
)

// Summary writes the device version and jump log summary blocks.
func (w *Writer) Summary(src jump.RecordSource) error {
	p := &printer{w: w.out}
	blocks := 0

	err := eachRecord(src, func(rec record.Record) (bool, error) {
		switch rec.Type {
		case record.TypeVersion:
			info := jump.DecodeDeviceInfo(rec)
			p.printf("Neptune Software v%d.%d.%d\n", info.Major, info.Minor, info.Revision)
			p.printf("Neptune Serial No: %s\n", info.Serial)
			p.printf("\n")
			blocks++
		case record.TypeJumpSummary:
			s := jump.DecodeLogSummary(rec)
			p.printf("Number Jump Records   = %d\n", s.JumpRecords)
			p.printf("Number Jump Profiles  = %d\n", s.JumpProfiles)
			p.printf("Total Jumps Made      = %d\n", s.TotalJumps)
			p.printf("Total FreeFall Time   = %d sec\n", s.FreefallSeconds)
			p.printf("Last Jump Number      = %d\n", s.LastJump)
			p.printf("\n")
			blocks++
		case record.TypeEndOfData:
			return true, p.err
		}
		return false, p.err
	})
	if err != nil {
		return err
	}

	w.logger.WithField("blocks", blocks).Debug("Summary written")
	return p.err
}

// Detail writes one block per jump record and profile start, filtered by the
// jump number option. Profile point counts per phase follow each profile
// start.
func (w *Writer) Detail(src jump.RecordSource) error {
	p := &printer{w: w.out}
	filter := w.opts.JumpNumber

	var (
		phase    jump.Phase
		counting bool
		counts   [3]int
		jumps    int
	)

	err := eachRecord(src, func(rec record.Record) (bool, error) {
		switch rec.Type {
		case record.TypeJumpRecord, record.TypeEndOfData, record.TypeProfileStart, record.TypeEndOfProfile:
			if counting {
				p.printf("Num Aircraft Data Pts = %d\n", counts[jump.PointAircraft])
				p.printf("Num Freefall Data Pts = %d\n", counts[jump.PointFreefall])
				p.printf("Num Canopy Data Pts   = %d\n", counts[jump.PointCanopy])
				counting = false
			}
		}

		switch rec.Type {
		case record.TypeJumpRecord:
			d := jump.DecodeJumpDetail(rec)
			if filter != 0 && filter != d.Number {
				break
			}
			if jumps > 0 {
				p.printf("\n")
			}
			jumps++
			w.writeJumpDetail(p, d)
		case record.TypeEndOfData:
			return true, p.err
		case record.TypeStreamType:
			phase.Stream(jump.StreamCode(rec))
		case record.TypeProfileStart:
			s := jump.DecodeProfileStart(rec)
			if filter != 0 && filter != s.Number {
				break
			}
			p.printf("Ground Altitude (MSL) = %d ft\n", int64(math.Round(s.GroundAltitude)))
			p.printf("Freefall Start Time   = %.2f sec\n", s.FreefallStart)
			p.printf("Canopy Start Time     = %.2f sec\n", s.CanopyStart)
			phase.Reset()
			counts = [3]int{}
			counting = true
		case record.TypeProfileDatapoint:
			if counting {
				counts[phase.Current()]++
			}
		}
		return false, p.err
	})
	if err != nil {
		return err
	}

	p.printf("\n")

	w.logger.WithFields(logrus.Fields{
		"jumps":       jumps,
		"jump_filter": filter,
	}).Debug("Detail written")
	return p.err
}

func (w *Writer) writeJumpDetail(p *printer, d jump.JumpDetail) {
	p.printf("Jump Number           : %d\n", d.Number)
	p.printf("Jump Date/Time        = %02d/%02d/%02d  %02d:%02d\n", d.Month, d.Day, d.Year, d.Hour, d.Minute)
	p.printf("Jump Type             = %s\n", d.Type)
	p.printf("Data Version          = %d.%d.%d\n", d.DataVersion[0], d.DataVersion[1], d.DataVersion[2])
	p.printf("Data SW Type          = %d\n", d.SoftwareType)
	p.printf("Max FF Speed (TAS)    = %.1f mph\n", d.MaxSpeed)
	p.printf("12K FF Speed (TAS)    = %.1f mph\n", d.Speed12K)
	p.printf(" 9K FF Speed (TAS)    = %.1f mph\n", d.Speed9K)
	p.printf(" 6K FF Speed (TAS)    = %.1f mph\n", d.Speed6K)
	p.printf(" 3K FF Speed (TAS)    = %.1f mph\n", d.Speed3K)
	p.printf("Avg FF Speed (TAS)    = %.1f mph\n", d.AverageSpeed)
	p.printf("Exit Altitude (AGL)   = %d ft\n", uint64(math.Round(d.ExitAltitude)))
	p.printf("Deploy Altitude (AGL) = %d ft\n", uint64(math.Round(d.DeployAltitude)))
	p.printf("Freefall Time         = %d sec\n", d.FreefallSeconds)
}
