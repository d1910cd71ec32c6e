package scheduling

import (
	"sort"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

var dayNames = [7]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

func DayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return dayNames[weekday]
}

// DefaultSchedule is Mon-Fri 08:00-18:00, Sat 08:00-12:00, Sunday closed.
func DefaultSchedule() []models.DaySchedule {
	schedule := make([]models.DaySchedule, 7)
	for d := 0; d < 7; d++ {
		day := models.DaySchedule{
			DayOfWeek: d,
			DayName:   dayNames[d],
			TimeSlots: []models.TimeRange{},
		}
		switch {
		case d >= 1 && d <= 5:
			day.IsAvailable = true
			day.TimeSlots = []models.TimeRange{{Start: "08:00", End: "18:00"}}
		case d == 6:
			day.IsAvailable = true
			day.TimeSlots = []models.TimeRange{{Start: "08:00", End: "12:00"}}
		}
		schedule[d] = day
	}
	return schedule
}

// DefaultAvailability is synthesized for professionals that never saved a
// template. It is not persisted and carries a zero UpdatedAt.
func DefaultAvailability(professionalID string) *models.ProfessionalAvailability {
	return &models.ProfessionalAvailability{
		ProfessionalID: professionalID,
		Schedule:       DefaultSchedule(),
		Exceptions:     []models.DateException{},
	}
}

// NormalizeSchedule validates a full weekly template and returns a copy
// ordered by weekday with ascending ranges.
func NormalizeSchedule(schedule []models.DaySchedule) ([]models.DaySchedule, error) {
	if len(schedule) != 7 {
		return nil, httperr.ErrValidation("invalid_schedule", "A agenda deve conter os 7 dias da semana.")
	}

	out := make([]models.DaySchedule, 7)
	seen := [7]bool{}

	for _, day := range schedule {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 || seen[day.DayOfWeek] {
			return nil, httperr.ErrValidation("invalid_schedule", "Dia da semana inválido ou repetido.")
		}
		seen[day.DayOfWeek] = true

		if day.DayName == "" {
			day.DayName = dayNames[day.DayOfWeek]
		}

		ranges := append([]models.TimeRange{}, day.TimeSlots...)
		if day.IsAvailable {
			var err error
			if ranges, err = normalizeRanges(ranges); err != nil {
				return nil, err
			}
		}
		day.TimeSlots = ranges
		out[day.DayOfWeek] = day
	}

	return out, nil
}

// NormalizeExceptions validates date overrides and orders them by date.
func NormalizeExceptions(exceptions []models.DateException) ([]models.DateException, error) {
	out := make([]models.DateException, 0, len(exceptions))
	seen := make(map[string]bool, len(exceptions))

	for _, ex := range exceptions {
		if _, err := ParseDate(ex.Date); err != nil {
			return nil, httperr.ErrValidation("invalid_exception", "Data de exceção inválida.")
		}
		if seen[ex.Date] {
			return nil, httperr.ErrValidation("invalid_exception", "Data de exceção repetida.")
		}
		seen[ex.Date] = true

		if ex.IsAvailable {
			ranges, err := normalizeRanges(append([]models.TimeRange{}, ex.TimeSlots...))
			if err != nil {
				return nil, err
			}
			ex.TimeSlots = ranges
		} else {
			ex.TimeSlots = nil
		}
		out = append(out, ex)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func normalizeRanges(ranges []models.TimeRange) ([]models.TimeRange, error) {
	parsed := make([]Interval, len(ranges))
	for i, r := range ranges {
		iv, err := ParseInterval(r.Start, r.End)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_time_range", "Faixa de horário inválida: "+r.Start+"-"+r.End+".")
		}
		parsed[i] = iv
	}

	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].Start < parsed[j].Start })

	out := make([]models.TimeRange, len(parsed))
	for i, iv := range parsed {
		if i > 0 && iv.Overlaps(parsed[i-1]) {
			return nil, httperr.ErrValidation("overlapping_time_ranges", "Faixas de horário sobrepostas.")
		}
		out[i] = models.TimeRange{Start: FormatClock(iv.Start), End: FormatClock(iv.End)}
	}
	return out, nil
}

// Day is the effective opening of one calendar date.
type Day struct {
	Date   string
	Open   bool
	Ranges []Interval
}

// ResolveDay applies a matching date exception, else the weekday template.
// Stored ranges that cannot be parsed are ignored.
func ResolveDay(av *models.ProfessionalAvailability, date string) (Day, error) {
	weekday, err := Weekday(date)
	if err != nil {
		return Day{}, httperr.ErrValidation("invalid_date", "Data inválida.")
	}

	day := Day{Date: date}

	for _, ex := range av.Exceptions {
		if ex.Date == date {
			day.Open = ex.IsAvailable
			if day.Open {
				day.Ranges = parseRanges(ex.TimeSlots)
			}
			return day, nil
		}
	}

	for _, ds := range av.Schedule {
		if ds.DayOfWeek == weekday {
			day.Open = ds.IsAvailable
			if day.Open {
				day.Ranges = parseRanges(ds.TimeSlots)
			}
			return day, nil
		}
	}

	return day, nil
}

func parseRanges(ranges []models.TimeRange) []Interval {
	out := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		if iv, err := ParseInterval(r.Start, r.End); err == nil {
			out = append(out, iv)
		}
	}
	return out
}
