package loader

// maxInternPoolSize bounds the pool for pathological inputs with few repeats.
const maxInternPoolSize = 100000

// stringIntern makes equal strings share one backing array. A mapping table
// repeats each Line and Area on hundreds of rows.
type stringIntern struct {
	pool map[string]string
}

func newStringIntern() *stringIntern {
	return &stringIntern{pool: make(map[string]string, 256)}
}

// Intern returns the canonical copy of s. Once the pool is full, s is
// returned unchanged.
func (si *stringIntern) Intern(s string) string {
	if pooled, ok := si.pool[s]; ok {
		return pooled
	}
	if len(si.pool) >= maxInternPoolSize {
		return s
	}
	si.pool[s] = s
	return s
}

// Len returns the number of unique strings in the pool.
func (si *stringIntern) Len() int {
	return len(si.pool)
}
