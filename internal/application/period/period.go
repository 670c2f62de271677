// Package period interpreta las ventanas de fechas de los filtros (YYYY-MM-DD, fin inclusivo).
package period

import (
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Range ventana de fechas; un extremo nil significa sin límite.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae dentro de la ventana (extremos inclusivos).
func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Parse convierte start/end en un Range. end se extiende hasta el último instante del día.
// Acepta también RFC3339, en cuyo caso se usa el instante exacto.
func Parse(start, end string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}
	var r Range
	if s := strings.TrimSpace(start); s != "" {
		t, _, err := parse(s, loc)
		if err != nil {
			return Range{}, domain.Invalid("start_date", "data inválida, use AAAA-MM-DD")
		}
		r.From = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, dateOnly, err := parse(e, loc)
		if err != nil {
			return Range{}, domain.Invalid("end_date", "data inválida, use AAAA-MM-DD")
		}
		if dateOnly {
			t = EndOfDay(t)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return Range{}, domain.Invalid("end_date", "a data final é anterior à inicial")
	}
	return r, nil
}

func parse(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// EndOfDay último nanosegundo del día de t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Add(24*time.Hour - time.Nanosecond)
}
