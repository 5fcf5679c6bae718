package report

import (
	"github.com/sirupsen/logrus"

	"neptune/internal/jump"
)

// labelOffset shifts the exit and deploy labels right of their markers, in
// seconds.
const labelOffset = 5.0

// plotSet is the selection of series to draw.
type plotSet struct {
	altitude bool
	tas      bool
	sas      bool
}

func (w *Writer) plotSet() plotSet {
	if w.opts.SubTypes == "" {
		return plotSet{altitude: true, tas: true, sas: true}
	}
	return plotSet{
		altitude: w.opts.has('a'),
		tas:      w.opts.has('t'),
		sas:      w.opts.has('s'),
	}
}

// markers are the exit and deploy points of a single-jump plot.
type markers struct {
	freefallStart float64
	canopyStart   float64
	exitAlt       float64
	deployAlt     float64
}

// findMarkers takes the altitude of the first sample at or after the
// freefall start, then of the first later sample at or after the canopy
// start.
func findMarkers(jr *jump.JumpRecord, prof *jump.JumpProfile) markers {
	m := markers{
		freefallStart: jr.FreefallStartTime,
		canopyStart:   jr.CanopyStartTime,
	}
	stage := 0
	for _, pt := range prof.Points {
		if stage == 0 && pt.Time >= m.freefallStart {
			m.exitAlt = pt.Altitude
			stage = 1
		}
		if stage == 1 && pt.Time >= m.canopyStart {
			m.deployAlt = pt.Altitude
			stage = 2
		}
	}
	return m
}

// Gnuplot writes a gnuplot script plotting altitude and airspeeds against
// time, with the data inlined. A dataset holding exactly one jump record and
// one profile is titled after the jump and gets exit and deploy markers.
// Sub-types: 'a', 't' and 's' pick the altitude, TAS and SAS series (all
// three when no sub-type is given), 'r' omits the reset command and 'p'
// appends a pause.
func (w *Writer) Gnuplot(ds *jump.Dataset) error {
	profiles := ds.Profiles.Items()
	if len(profiles) == 0 {
		w.logger.Debug("No profiles, gnuplot script skipped")
		return nil
	}

	single := ds.Records.Len() == 1 && len(profiles) == 1
	plots := w.plotSet()
	p := &printer{w: w.out}

	var mk markers
	var jr *jump.JumpRecord
	if single {
		jr = ds.Records.Items()[0]
		mk = findMarkers(jr, profiles[0])
	}

	if w.opts.SubTypes != "" && !w.opts.has('r') {
		p.printf("reset\n")
	}

	switch {
	case single && w.opts.Location != "":
		p.printf("set title \"Jump %d - %s (%s)\"\n", jr.Number, w.opts.Location, jr.Type)
	case single:
		p.printf("set title \"Jump %d (%s)\"\n", jr.Number, jr.Type)
	case w.opts.Location != "":
		p.printf("set title \"%s\"\n", w.opts.Location)
	}

	p.printf("set xtics 0.0,25.0\n")
	p.printf("set xlabel \"Time (sec)\"\n")

	switch {
	case plots.altitude && (plots.tas || plots.sas):
		p.printf("set ytics nomirror 0.0,1000.0\n")
		p.printf("set ylabel \"Altitude (ft)\"\n")
		p.printf("set y2tics autofreq\n")
		p.printf("set y2label \"Speed (mph)\"\n")
	case plots.altitude:
		p.printf("set ytics 0.0,1000.0\n")
		p.printf("set ylabel \"Altitude (ft)\"\n")
	default:
		p.printf("set ytics autofreq\n")
		p.printf("set ylabel \"Speed (mph)\"\n")
	}

	withMarkers := single && plots.altitude
	if withMarkers {
		p.printf("set style line 1 lt 8 pt 3\n")
		p.printf("set label 1 \"Exit\" at %f,%f\n", mk.freefallStart+labelOffset, mk.exitAlt)
		p.printf("set label 2 \"Deploy\" at %f,%f\n", mk.canopyStart+labelOffset, mk.deployAlt)
	}

	// Plot commands, one inline data block per series.
	lead := "plot"
	next := func() string {
		s := lead
		lead = ", "
		return s
	}
	for range profiles {
		if plots.altitude {
			p.printf("%s '-' title \"Altitude\" with lines", next())
		}
		if plots.tas {
			p.printf("%s '-' axes x1y2 title \"TASpeed\" with lines%s", next(), lineStyle(single && !plots.sas))
		}
		if plots.sas {
			p.printf("%s '-' axes x1y2 title \"SASpeed\" with lines%s", next(), lineStyle(single && !plots.tas))
		}
		if withMarkers {
			p.printf("%s '-' notitle with points ls 1", next())
		}
	}
	p.printf("\n")

	for _, prof := range profiles {
		if plots.altitude {
			writeSeries(p, prof, func(pt jump.DataPoint) float64 { return pt.Altitude })
		}
		if plots.tas {
			writeSeries(p, prof, func(pt jump.DataPoint) float64 { return pt.TrueAirSpeed })
		}
		if plots.sas {
			writeSeries(p, prof, func(pt jump.DataPoint) float64 { return pt.StandardAirSpeed })
		}
		if withMarkers {
			p.printf("%f %f\n", mk.freefallStart, mk.exitAlt)
			p.printf("%f %f\n", mk.canopyStart, mk.deployAlt)
			p.printf("e\n")
		}
	}

	if w.opts.has('p') {
		p.printf("pause -1 \"Hit return to continue\"\n")
	}

	w.logger.WithFields(logrus.Fields{
		"profiles": len(profiles),
		"single":   single,
	}).Debug("Gnuplot script written")
	return p.err
}

// lineStyle picks the alternate colour for a lone speed series.
func lineStyle(alone bool) string {
	if alone {
		return " 3"
	}
	return ""
}

func writeSeries(p *printer, prof *jump.JumpProfile, value func(jump.DataPoint) float64) {
	for _, pt := range prof.Points {
		p.printf("%f %f\n", pt.Time, value(pt))
	}
	p.printf("e\n")
}
