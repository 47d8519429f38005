package app

import "obscura/internal/domain/entity"

// Score считает риск: сумма weight[kind]*count, усечённая до целого
// и ограниченная диапазоном [0,100]. Неизвестные типы весят ноль,
// поэтому новые виды находок не ломают подсчёт.
func Score(counts entity.KindCounts, weights map[entity.Kind]float64) int {
	sum := 0.0
	for k, c := range counts {
		sum += weights[k] * float64(c)
	}
	s := int(sum)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
