package domain

import "fmt"

// RangeBounds - настройки слайдера диапазона.
// OpenEnded включает старое поведение: значение на краю слайдера означает "без границы".
// Без этого флага крайнее значение сохраняется буквально.
type RangeBounds struct {
	Floor     int64
	Ceiling   int64
	OpenEnded bool
}

// Range - пара [min, max], которую форма хранит отдельно от фильтра.
type Range struct {
	Min *int64
	Max *int64
}

// IsEmpty сообщает, что обе границы не заданы.
func (r Range) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// Fold превращает положение слайдера в границы фильтра.
func (b RangeBounds) Fold(r Range) (min, max *int64, err error) {
	min, max = clonePtr(r.Min), clonePtr(r.Max)

	if min != nil && *min < 0 {
		return nil, nil, fmt.Errorf("%w: lower bound %d is negative", ErrInvalidRange, *min)
	}
	if max != nil && *max < 0 {
		return nil, nil, fmt.Errorf("%w: upper bound %d is negative", ErrInvalidRange, *max)
	}

	if b.OpenEnded {
		if min != nil && *min <= b.Floor {
			min = nil
		}
		if max != nil && b.Ceiling > 0 && *max >= b.Ceiling {
			max = nil
		}
	}

	if min != nil && max != nil && *min > *max {
		return nil, nil, fmt.Errorf("%w: lower bound %d is greater than upper bound %d", ErrInvalidRange, *min, *max)
	}
	return min, max, nil
}
