/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import "fmt"

// count increments the operation counter for op on model.
func (s *Store) count(model, op string) {
	name := fmt.Sprintf(`memorystore_operations_total{backend="memory",model=%q,op=%q}`, model, op)
	s.metrics.GetOrCreateCounter(name).Inc()
}
