package normalize

import (
	"strconv"
	"strings"
)

// ParseSalary переводит зарплату в число для сортировки: середина диапазона
// или одно значение. "Не вказано" и всё нераспознанное дают 0.
func ParseSalary(salary string) float64 {
	s := CleanSalary(salary)
	if s == "" {
		return 0
	}

	for _, sep := range []string{"–", "-"} {
		low, high, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		l, err := strconv.Atoi(low)
		if err != nil {
			return 0
		}
		h, err := strconv.Atoi(high)
		if err != nil {
			return 0
		}
		return float64(l+h) / 2
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return float64(v)
}
