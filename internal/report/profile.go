package report

import (
	"github.com/sirupsen/logrus"

	"neptune/internal/jump"
)

const (
	tableHeaderTabs   = "Jump\tPoint\tType\tTime\tAltitude\tTASpeed\tSASpeed\n"
	tableHeaderSpaces = "Jump    Point   Type            Time            Altitude        TASpeed         SASpeed\n"
	csvHeader         = "Jump,Point,Type,Time,Altitude,TASpeed,SASpeed\n"

	tableRowTabs   = "%d\t%d\t%s\t%f\t%f\t%f\t%f\n"
	tableRowSpaces = "%-7d %-7d %-15s %-15f %-15f %-15f %-15f\n"
	csvRow         = "%d,%d,%s,%f,%f,%f,%f\n"
)

// Profiles writes one row per data point of every profile, as a table or as
// CSV depending on the kind. Sub-type 's' pads tables with spaces instead of
// tabs and 'h' drops the header.
func (w *Writer) Profiles(ds *jump.Dataset) error {
	header, row := tableHeaderTabs, tableRowTabs
	switch {
	case w.opts.Kind == KindCSV:
		header, row = csvHeader, csvRow
	case w.opts.has('s'):
		header, row = tableHeaderSpaces, tableRowSpaces
	}

	p := &printer{w: w.out}
	if !w.opts.has('h') {
		p.printf("%s", header)
	}

	rows := 0
	for _, prof := range ds.Profiles.Items() {
		for i, pt := range prof.Points {
			p.printf(row, prof.Number, i+1, pt.Type, pt.Time, pt.Altitude, pt.TrueAirSpeed, pt.StandardAirSpeed)
			rows++
		}
	}

	w.logger.WithFields(logrus.Fields{
		"format":   w.opts.Kind,
		"profiles": ds.Profiles.Len(),
		"rows":     rows,
	}).Debug("Profile data written")
	return p.err
}
