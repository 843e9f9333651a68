// Package export renders the session collection for external consumption.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// csvHeader is the fixed column set of the CSV export.
var csvHeader = []string{"Category", "Start Time", "End Time", "Duration (Minutes)", "Status"}

// WriteCSV writes one row per session. Active sessions have a blank end time
// and a blank duration.
func WriteCSV(w io.Writer, sessions []models.Session, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range sessions {
		row := []string{
			s.Category,
			timeutil.FormatISO(s.StartTime),
			"",
			"",
			s.Status(),
		}
		if s.EndTime != nil {
			row[2] = timeutil.FormatISO(*s.EndTime)
			row[3] = strconv.Itoa(timeutil.WholeMinutes(s.Duration(now)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write session %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
