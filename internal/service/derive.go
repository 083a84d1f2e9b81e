package service

import "github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"

// DistinctFloors returns the non-empty floors of batch in first-appearance order.
func DistinctFloors(batch []domain.Event) []string {
	return distinct(batch, func(e domain.Event) string { return e.Floor })
}

// DistinctPersons returns the non-empty persons of batch in first-appearance order.
func DistinctPersons(batch []domain.Event) []string {
	return distinct(batch, func(e domain.Event) string { return e.Person })
}

func distinct(batch []domain.Event, key func(domain.Event) string) []string {
	seen := make(map[string]struct{}, len(batch))
	out := make([]string, 0)
	for _, e := range batch {
		k := key(e)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
