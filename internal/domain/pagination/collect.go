package pagination

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collect проходит итератор до конца и декодирует элементы в T.
// При ошибке страницы возвращает уже собранные элементы вместе с ошибкой.
func Collect[T any](ctx context.Context, it *Iterator) ([]T, error) {
	var out []T
	for it.Next(ctx) {
		var v T
		if err := json.Unmarshal(it.Element(), &v); err != nil {
			return out, fmt.Errorf("decode element %d: %w", len(out), err)
		}
		out = append(out, v)
	}
	return out, it.Err()
}
